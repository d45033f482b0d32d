// pkg/render/terminal.go
package render

import (
	"fmt"
	"strings"

	"github.com/igupta1/CannonShooter/pkg/entity"
	"github.com/igupta1/CannonShooter/pkg/physics"
)

// TerminalRenderer draws a top-down ASCII view of the arena onto an
// in-memory rune buffer. The world X/Z plane maps to screen columns/rows;
// height is discarded.
type TerminalRenderer struct {
	width  int
	height int
	buffer [][]rune
	scale  float64
	center physics.Vector3
}

// NewTerminalRenderer creates a renderer of the given character dimensions.
// scale is world units per character cell.
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
	}
}

// SetCenter positions the view over the given world point.
func (r *TerminalRenderer) SetCenter(pos physics.Vector3) {
	r.center = pos
}

// worldToScreen projects a world position onto the character grid.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector3) (int, int) {
	screenX := int((pos.X-r.center.X)/r.scale + float64(r.width)/2)
	screenY := int((pos.Z-r.center.Z)/r.scale + float64(r.height)/2)
	return screenX, screenY
}

func (r *TerminalRenderer) plot(pos physics.Vector3, symbol rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear implements entity.Renderer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Present implements entity.Renderer. The frame is written to stdout with a
// border.
func (r *TerminalRenderer) Present() {
	fmt.Print("\033[H\033[2J")
	fmt.Print(r.Frame())
}

// Frame returns the current buffer as a bordered string.
func (r *TerminalRenderer) Frame() string {
	var b strings.Builder
	border := "+" + strings.Repeat("-", r.width) + "+\n"

	b.WriteString(border)
	for y := range r.buffer {
		b.WriteString("|")
		b.WriteString(string(r.buffer[y]))
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}

// RenderGuard implements entity.Renderer. Regular guards draw as G, the
// boss as B; destroyed guards draw as x.
func (r *TerminalRenderer) RenderGuard(guard *entity.Guard) {
	symbol := 'G'
	if guard.IsBoss {
		symbol = 'B'
	}
	if guard.Destroyed {
		symbol = 'x'
	}
	r.plot(guard.Position, symbol)
}

// RenderChest implements entity.Renderer. Uncollected chests draw as C,
// collected ones as c.
func (r *TerminalRenderer) RenderChest(chest *entity.Chest) {
	symbol := 'C'
	if chest.Collected {
		symbol = 'c'
	}
	r.plot(chest.Position, symbol)
}

// RenderProjectile implements entity.Renderer. Player shots draw as o,
// hostile shots as *.
func (r *TerminalRenderer) RenderProjectile(projectile *entity.Projectile) {
	symbol := '*'
	if projectile.Owner == entity.OwnerPlayer {
		symbol = 'o'
	}
	r.plot(projectile.Position, symbol)
}

// RenderFadingTrail implements entity.Renderer.
func (r *TerminalRenderer) RenderFadingTrail(trail *entity.FadingTrail) {
	for _, pt := range trail.Points {
		r.plot(pt.Position, '.')
	}
}
