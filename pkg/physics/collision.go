// pkg/physics/collision.go
package physics

// Sphere represents a spherical collision shape
type Sphere struct {
	Center Vector3
	Radius float64
}

// Collides checks if two spheres are colliding
func (s Sphere) Collides(other Sphere) bool {
	return s.Center.Distance(other.Center) < s.Radius+other.Radius
}

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vector3
	Max Vector3
}

// AABBFromCenter builds a box from a center point and per-axis half extents
func AABBFromCenter(center, halfExtents Vector3) AABB {
	return AABB{
		Min: center.Sub(halfExtents),
		Max: center.Add(halfExtents),
	}
}

// Contains reports whether the point lies inside the box
func (b AABB) Contains(point Vector3) bool {
	return point.X >= b.Min.X && point.X <= b.Max.X &&
		point.Y >= b.Min.Y && point.Y <= b.Max.Y &&
		point.Z >= b.Min.Z && point.Z <= b.Max.Z
}

// ClosestPoint returns the point on or inside the box nearest to p,
// obtained by clamping p independently on each axis.
func (b AABB) ClosestPoint(p Vector3) Vector3 {
	return Vector3{
		X: Clamp(p.X, b.Min.X, b.Max.X),
		Y: Clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: Clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// SphereVsAABB reports whether a sphere intersects an axis-aligned box.
// The test is exact: the sphere center is clamped onto the box and the
// squared distance to that closest point is compared against radius².
// There is no tolerance beyond floating-point precision.
func SphereVsAABB(center Vector3, radius float64, box AABB) bool {
	closest := box.ClosestPoint(center)
	return center.Sub(closest).LengthSquared() <= radius*radius
}

// CollisionResult contains information about a sphere-sphere collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector3
	Penetration  float64
	ContactPoint Vector3
}

// CheckCollision performs detailed collision detection between two spheres
func CheckCollision(a, b Sphere) CollisionResult {
	normal := b.Center.Sub(a.Center)
	distance := normal.Length()

	if distance > a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	penetration := a.Radius + b.Radius - distance
	normal = normal.Normalize()
	contactPoint := a.Center.Add(normal.Scale(a.Radius))

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  penetration,
		ContactPoint: contactPoint,
	}
}
