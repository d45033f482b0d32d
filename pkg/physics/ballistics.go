// pkg/physics/ballistics.go
package physics

// Gravity is the constant acceleration applied to every projectile, in m/s².
var Gravity = Vector3{X: 0, Y: -9.8, Z: 0}

// Integrate advances a position/velocity pair by dt seconds under constant
// gravity using semi-implicit Euler: velocity is updated first, then position
// is advanced with the new velocity.
func Integrate(position, velocity Vector3, dt float64) (Vector3, Vector3) {
	velocity = velocity.Add(Gravity.Scale(dt))
	position = position.Add(velocity.Scale(dt))
	return position, velocity
}

// LaunchSpeed maps a charge fraction in [0, 1] linearly onto the
// [minPower, maxPower] speed range. Out-of-range charges are clamped.
func LaunchSpeed(charge, minPower, maxPower float64) float64 {
	return Lerp(minPower, maxPower, Clamp(charge, 0, 1))
}
