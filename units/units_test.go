package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCelsiusToKelvinRoundTrip(t *testing.T) {
	k := Celsius(25).ToKelvin()
	assert.InDelta(t, 298.15, float64(k), 1e-9)
	assert.InDelta(t, 25.0, float64(k.ToCelsius()), 1e-9)
}

func TestDegreesToRadiansRoundTrip(t *testing.T) {
	r := Degrees(180).ToRadians()
	assert.InDelta(t, math.Pi, float64(r), 1e-9)
	assert.InDelta(t, 180.0, float64(r.ToDegrees()), 1e-9)
}

func TestKmhToMs(t *testing.T) {
	assert.InDelta(t, 10.0, float64(KmhToMs(36)), 1e-9)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-5))
	assert.Equal(t, 1.0, Clamp01(5))
	assert.Equal(t, 0.5, Clamp01(0.5))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2.0, Clamp(-1, 2, 8))
	assert.Equal(t, 8.0, Clamp(20, 2, 8))
	assert.Equal(t, 5.0, Clamp(5, 2, 8))
	assert.Equal(t, 2.0, Clamp(math.NaN(), 2, 8))
}

func TestNaNAwareLess(t *testing.T) {
	assert.True(t, NaNAwareLess(1, 2))
	assert.False(t, NaNAwareLess(2, 1))
	assert.True(t, NaNAwareLess(1, math.NaN()))
	assert.False(t, NaNAwareLess(math.NaN(), 1))
	assert.False(t, NaNAwareLess(math.NaN(), math.NaN()))
}

func TestVec3AddSubScale(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)
	assert.Equal(t, NewVec3(5, 7, 9), a.Add(b))
	assert.Equal(t, NewVec3(-3, -3, -3), a.Sub(b))
	assert.Equal(t, NewVec3(2, 4, 6), a.Scale(2))
}

func TestVec3DotAndCross(t *testing.T) {
	a := NewVec3(1, 0, 0)
	b := NewVec3(0, 1, 0)
	assert.InDelta(t, 0.0, a.Dot(b), 1e-6)
	assert.Equal(t, NewVec3(0, 0, 1), a.Cross(b))
}

func TestVec3NormAndDistance(t *testing.T) {
	v := NewVec3(3, 4, 0)
	assert.InDelta(t, 5.0, v.Norm(), 1e-6)
	assert.InDelta(t, 5.0, v.Distance(Vec3{}), 1e-6)
}

func TestVec3NormalizeOrZero(t *testing.T) {
	v := NewVec3(3, 4, 0)
	n := v.NormalizeOrZero()
	assert.InDelta(t, 1.0, n.Norm(), 1e-5)

	zero := Vec3{}.NormalizeOrZero()
	assert.Equal(t, Vec3{}, zero)
}

func TestVec3XY(t *testing.T) {
	x, y := NewVec3(1, 2, 3).XY()
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 2.0, y)
}
