package entity

// Renderer handles rendering simulated entities. The simulation core never
// calls into a renderer itself; collaborators drive rendering from snapshots
// and lifecycle events.
type Renderer interface {
	RenderGuard(guard *Guard)
	RenderChest(chest *Chest)
	RenderProjectile(projectile *Projectile)
	RenderFadingTrail(trail *FadingTrail)
	Clear()
	Present()
}
