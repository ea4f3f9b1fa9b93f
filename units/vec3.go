package units

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is a 3-tuple of length-typed coordinates. Internally it rides on
// mgl32.Vec3 for the actual arithmetic, the way Gekko3D-gekko's ECS components
// embed mgl32 vectors directly (transform_hierarchy.go, physics.go) — only
// here every axis is understood to be meters.
type Vec3 struct {
	X, Y, Z Length
}

// NewVec3 builds a Vec3 from plain float64 meters.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{Length(x), Length(y), Length(z)}
}

func (v Vec3) raw() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func fromRaw(r mgl32.Vec3) Vec3 {
	return Vec3{Length(r.X()), Length(r.Y()), Length(r.Z())}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return fromRaw(v.raw().Add(o.raw())) }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return fromRaw(v.raw().Sub(o.raw())) }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return fromRaw(v.raw().Mul(float32(s))) }

// Dot is the scalar dot product.
func (v Vec3) Dot(o Vec3) float64 { return float64(v.raw().Dot(o.raw())) }

// Cross is the vector cross product.
func (v Vec3) Cross(o Vec3) Vec3 { return fromRaw(v.raw().Cross(o.raw())) }

// Norm is the Euclidean length.
func (v Vec3) Norm() float64 { return float64(v.raw().Len()) }

// NormalizeOrZero returns the unit vector, or the zero vector when Norm() is
// ~0, so callers never divide by zero.
func (v Vec3) NormalizeOrZero() Vec3 {
	n := v.Norm()
	if n < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1.0 / n)
}

// XY projects onto the horizontal plane, dropping Z.
func (v Vec3) XY() (float64, float64) { return float64(v.X), float64(v.Y) }

// Distance returns the Euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Norm() }
