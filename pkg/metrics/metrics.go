// Package metrics bundles the Prometheus instrumentation for the simulation
// core: tick timing, entity population gauges, and gameplay counters fed from
// the event bus.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/igupta1/CannonShooter/pkg/event"
)

// Collector holds the registered metrics and provides helpers to wire them
// into the game loop and an HTTP handler.
type Collector struct {
	gatherer prometheus.Gatherer

	TickDuration prometheus.Histogram

	Projectiles  prometheus.Gauge
	Guards       prometheus.Gauge
	Chests       prometheus.Gauge
	FadingTrails prometheus.Gauge
	Spectators   prometheus.Gauge

	ShotsFired      *prometheus.CounterVec
	GuardHits       prometheus.Counter
	GuardsDestroyed prometheus.Counter
	PlayerDamage    prometheus.Counter
	Expiries        prometheus.Counter
	ChestsCollected prometheus.Counter
	RoundsEnded     *prometheus.CounterVec
}

// NewCollector registers the simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Wall-clock duration of one simulation tick.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0167, 0.025, 0.05, 0.1},
	})
	if err := register(reg, tickDuration, "sim_tick_duration_seconds"); err != nil {
		return nil, err
	}

	c := &Collector{
		gatherer:     gatherer,
		TickDuration: tickDuration,
	}

	gauges := []struct {
		target *prometheus.Gauge
		name   string
		help   string
	}{
		{&c.Projectiles, "sim_projectiles", "Current number of live projectiles."},
		{&c.Guards, "sim_guards", "Current number of live guards, boss included."},
		{&c.Chests, "sim_chests", "Current number of chests, collected included."},
		{&c.FadingTrails, "sim_fading_trails", "Current number of detached fading trails."},
		{&c.Spectators, "sim_spectators", "Current number of connected spectator feeds."},
	}
	for _, g := range gauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help})
		if err := register(reg, gauge, g.name); err != nil {
			return nil, err
		}
		*g.target = gauge
	}

	shotsFired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_shots_fired_total",
		Help: "Total projectiles spawned, labeled by owner.",
	}, []string{"owner"})
	if err := register(reg, shotsFired, "sim_shots_fired_total"); err != nil {
		return nil, err
	}
	c.ShotsFired = shotsFired

	roundsEnded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_rounds_ended_total",
		Help: "Total rounds ended, labeled by end reason.",
	}, []string{"reason"})
	if err := register(reg, roundsEnded, "sim_rounds_ended_total"); err != nil {
		return nil, err
	}
	c.RoundsEnded = roundsEnded

	counters := []struct {
		target *prometheus.Counter
		name   string
		help   string
	}{
		{&c.GuardHits, "sim_guard_hits_total", "Total confirmed projectile hits on guards."},
		{&c.GuardsDestroyed, "sim_guards_destroyed_total", "Total guards destroyed."},
		{&c.PlayerDamage, "sim_player_damage_total", "Total damage points applied to the player."},
		{&c.Expiries, "sim_projectile_expiries_total", "Total projectiles expired by lifetime or ground contact."},
		{&c.ChestsCollected, "sim_chests_collected_total", "Total chests collected."},
	}
	for _, def := range counters {
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: def.name, Help: def.help})
		if err := register(reg, counter, def.name); err != nil {
			return nil, err
		}
		*def.target = counter
	}

	return c, nil
}

// ObserveBus subscribes the gameplay counters to the simulation event bus.
// The gauges are driven separately via SetEntityCounts each tick.
func (c *Collector) ObserveBus(bus *event.Bus) {
	bus.Subscribe(event.ProjectileFired, func(e event.Event) {
		if pe, ok := e.(*event.ProjectileEvent); ok {
			c.ShotsFired.WithLabelValues(pe.Owner).Inc()
		}
	})
	bus.Subscribe(event.ProjectileExpired, func(e event.Event) {
		c.Expiries.Inc()
	})
	bus.Subscribe(event.GuardHit, func(e event.Event) {
		c.GuardHits.Inc()
	})
	bus.Subscribe(event.GuardDestroyed, func(e event.Event) {
		c.GuardsDestroyed.Inc()
	})
	bus.Subscribe(event.PlayerDamaged, func(e event.Event) {
		if de, ok := e.(*event.DamageEvent); ok {
			c.PlayerDamage.Add(float64(de.Amount))
		}
	})
	bus.Subscribe(event.ChestCollected, func(e event.Event) {
		c.ChestsCollected.Inc()
	})
	bus.Subscribe(event.RoundEnded, func(e event.Event) {
		if re, ok := e.(*event.RoundEvent); ok {
			c.RoundsEnded.WithLabelValues(string(re.Reason)).Inc()
		}
	})
}

// SetEntityCounts updates the population gauges; the server loop calls it
// once per tick from the registry's counts.
func (c *Collector) SetEntityCounts(projectiles, guards, chests, trails int) {
	c.Projectiles.Set(float64(projectiles))
	c.Guards.Set(float64(guards))
	c.Chests.Set(float64(chests))
	c.FadingTrails.Set(float64(trails))
}

// ObserveTick records one tick's wall-clock duration.
func (c *Collector) ObserveTick(d time.Duration) {
	c.TickDuration.Observe(d.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register(reg prometheus.Registerer, collector prometheus.Collector, name string) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return fmt.Errorf("collector %s already registered", name)
		}
		return err
	}
	return nil
}
