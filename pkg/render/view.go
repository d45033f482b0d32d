// pkg/render/view.go
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/igupta1/CannonShooter/pkg/engine"
	"github.com/igupta1/CannonShooter/pkg/physics"
)

const statusBarHeight = 2

// SpectatorView draws feed snapshots onto a tcell screen: a status bar with
// score, clock, health, and chest progress, then a top-down arena view.
type SpectatorView struct {
	screen tcell.Screen
	scale  float64
}

// NewSpectatorView creates a view drawing onto screen. scale is world units
// per character cell.
func NewSpectatorView(screen tcell.Screen, scale float64) *SpectatorView {
	return &SpectatorView{
		screen: screen,
		scale:  scale,
	}
}

// Draw renders one snapshot and flushes it to the terminal.
func (v *SpectatorView) Draw(state *engine.GameState) {
	v.screen.Clear()
	v.drawStatusBar(state)
	v.drawArena(state)
	v.screen.Show()
}

func (v *SpectatorView) drawStatusBar(state *engine.GameState) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)

	line := fmt.Sprintf("score %d   time %5.1fs   hp %d/%d   chests %d/%d   tick %d",
		state.Score, state.Elapsed,
		state.Player.Health, state.Player.MaxHealth,
		state.ChestsCollected, state.ChestsTotal,
		state.Tick,
	)
	v.drawText(0, 0, line, style)

	if state.Status == engine.GameStatusEnded {
		endStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		v.drawText(0, 1, fmt.Sprintf("round over: %s", state.EndReason), endStyle)
	}
}

func (v *SpectatorView) drawArena(state *engine.GameState) {
	width, height := v.screen.Size()
	arenaHeight := height - statusBarHeight
	if arenaHeight <= 0 {
		return
	}

	// Keep the view centered on the player.
	center := state.Player.Position

	plot := func(pos physics.Vector3, symbol rune, style tcell.Style) {
		x := int((pos.X-center.X)/v.scale + float64(width)/2)
		y := int((pos.Z-center.Z)/v.scale+float64(arenaHeight)/2) + statusBarHeight
		if x >= 0 && x < width && y >= statusBarHeight && y < height {
			v.screen.SetContent(x, y, symbol, nil, style)
		}
	}

	trailStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, trail := range state.Trails {
		for _, pt := range trail.Points {
			plot(pt, '.', trailStyle)
		}
	}

	for _, p := range state.Projectiles {
		symbol, style := '*', tcell.StyleDefault.Foreground(tcell.ColorRed)
		if p.Owner == "player" {
			symbol, style = 'o', tcell.StyleDefault.Foreground(tcell.ColorAqua)
		}
		for _, pt := range p.Trail {
			plot(pt, '.', trailStyle)
		}
		plot(p.Position, symbol, style)
	}

	for _, chest := range state.Chests {
		symbol, style := 'C', tcell.StyleDefault.Foreground(tcell.ColorGold)
		if chest.Collected {
			symbol, style = 'c', tcell.StyleDefault.Foreground(tcell.ColorGray)
		}
		plot(chest.Position, symbol, style)
	}

	for _, guard := range state.Guards {
		symbol := 'G'
		if guard.Boss {
			symbol = 'B'
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		if guard.FlashFraction > 0 {
			style = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
		}
		plot(guard.Position, symbol, style)
	}

	plot(center, '@', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
}

func (v *SpectatorView) drawText(x, y int, text string, style tcell.Style) {
	width, _ := v.screen.Size()
	for i, ch := range text {
		if x+i >= width {
			break
		}
		v.screen.SetContent(x+i, y, ch, nil, style)
	}
}
