// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/igupta1/CannonShooter/pkg/config"
	"github.com/igupta1/CannonShooter/pkg/engine"
	"github.com/igupta1/CannonShooter/pkg/gameclock"
	"github.com/igupta1/CannonShooter/pkg/health"
	"github.com/igupta1/CannonShooter/pkg/logging"
	"github.com/igupta1/CannonShooter/pkg/metrics"
	"github.com/igupta1/CannonShooter/pkg/network"
	"github.com/igupta1/CannonShooter/pkg/resource"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to game configuration file")
	createDefault := flag.Bool("default", false, "Create a default configuration file and exit")
	restartDelay := flag.Duration("restart", 5*time.Second, "Delay before restarting an ended round; 0 disables restarts")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "created default configuration file", "config_path", *configPath)
		return
	}

	gameConfig := loadGameConfig(ctx, logger, *configPath)

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "failed to load environment configuration", err)
		os.Exit(1)
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		logger.Error(ctx, "failed to register metrics", err)
		os.Exit(1)
	}

	game := engine.NewGame(gameConfig, gameclock.NewRealClock())
	collector.ObserveBus(game.EventBus)

	feed := network.NewFeedServer(game, envConfig)
	feed.OnCountChange = func(count int) {
		collector.Spectators.Set(float64(count))
	}
	if err := feed.Start(); err != nil {
		logger.Error(ctx, "failed to start feed server", err)
		os.Exit(1)
	}

	resources := resource.NewManager(envConfig)
	if err := resources.Start(); err != nil {
		logger.Error(ctx, "failed to start resource manager", err)
		os.Exit(1)
	}

	// lastTick feeds the tick-loop health check.
	var lastTick atomic.Int64
	lastTick.Store(time.Now().UnixNano())

	healthServer := startHealthServer(ctx, logger, envConfig, collector, feed, resources, &lastTick)

	loopCtx, stopLoop := context.WithCancel(ctx)
	err = resources.Go(loopCtx, "tick_loop", func(ctx context.Context) {
		runTickLoop(ctx, game, feed, collector, envConfig, *restartDelay, &lastTick)
	})
	if err != nil {
		logger.Error(ctx, "failed to start tick loop", err)
		os.Exit(1)
	}

	game.Start()
	logger.Info(ctx, "simulation started",
		"feed_addr", feed.ListenerAddr(),
		"tick_rate", envConfig.TickRate,
		"broadcast_rate", envConfig.BroadcastRate,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "shutting down")
	stopLoop()

	shutdownCtx, cancel := context.WithTimeout(ctx, envConfig.ShutdownTimeout)
	defer cancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "health server shutdown failed", err)
	}
	if err := feed.Stop(shutdownCtx); err != nil {
		logger.Error(ctx, "feed server shutdown failed", err)
	}
	if err := resources.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "resource manager shutdown failed", err)
	}
}

// loadGameConfig reads the configuration file, falling back to defaults when
// the file does not exist.
func loadGameConfig(ctx context.Context, logger *logging.Logger, path string) *config.GameConfig {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "configuration file not found, using defaults", "config_path", path)
		return config.DefaultConfig()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Error(ctx, "failed to load configuration", err, "config_path", path)
		os.Exit(1)
	}
	return cfg
}

// runTickLoop drives the simulation at the configured tick rate and
// broadcasts snapshots at the configured broadcast rate.
func runTickLoop(
	ctx context.Context,
	game *engine.Game,
	feed *network.FeedServer,
	collector *metrics.Collector,
	envConfig *config.EnvironmentConfig,
	restartDelay time.Duration,
	lastTick *atomic.Int64,
) {
	ticker := time.NewTicker(time.Second / time.Duration(envConfig.TickRate))
	defer ticker.Stop()

	broadcastEvery := envConfig.TickRate / envConfig.BroadcastRate
	if broadcastEvery < 1 {
		broadcastEvery = 1
	}

	var tick uint64
	var restartAt time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		start := time.Now()
		game.Update()
		collector.ObserveTick(time.Since(start))
		collector.SetEntityCounts(game.Registry.Counts())
		lastTick.Store(time.Now().UnixNano())

		tick++
		if tick%uint64(broadcastEvery) == 0 {
			feed.Broadcast(game.GetGameState())
		}

		if restartDelay <= 0 {
			continue
		}
		state := game.GetGameState()
		switch {
		case state.Status == engine.GameStatusEnded && restartAt.IsZero():
			restartAt = time.Now().Add(restartDelay)
		case !restartAt.IsZero() && time.Now().After(restartAt):
			game.Reset()
			game.Start()
			restartAt = time.Time{}
		}
	}
}

// startHealthServer serves liveness, readiness, and metrics on the health
// port.
func startHealthServer(
	ctx context.Context,
	logger *logging.Logger,
	envConfig *config.EnvironmentConfig,
	collector *metrics.Collector,
	feed *network.FeedServer,
	resources *resource.Manager,
	lastTick *atomic.Int64,
) *http.Server {
	checker := health.NewChecker()
	checker.AddCheck(health.NewTickLoopCheck(5*time.Second, func() time.Duration {
		return time.Since(time.Unix(0, lastTick.Load()))
	}))
	checker.AddCheck(health.NewFeedCheck(feed.ListenerAddr))
	checker.AddCheck(health.NewMemoryCheck(envConfig.MaxMemoryMB, resources.MemoryUsage))
	checker.AddCheck(resource.NewHealthCheck(resources))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.LivenessHandler)
	mux.HandleFunc("/ready", checker.ReadinessHandler)
	mux.Handle("/metrics", collector.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", envConfig.HealthPort),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "health server listening", "port", envConfig.HealthPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "health server failed", err)
		}
	}()

	return server
}
