// Package components defines the plain value types shared by the simulation.
package components

import (
	"fmt"
	"math"
)

// Vector is a 2D value type. All operations return new vectors.
type Vector struct {
	X, Y float64
}

// Normalize returns the unit vector along (x, y).
// Panics if both components are zero: the direction is undefined.
func Normalize(x, y float64) Vector {
	length := math.Sqrt(x*x + y*y)
	if length == 0 {
		panic(fmt.Sprintf("components: normalize of zero vector (%v, %v)", x, y))
	}
	return Vector{X: x / length, Y: y / length}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

// LengthSq returns the squared length of v.
func (v Vector) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the Euclidean length of v.
func (v Vector) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// IsZero reports whether both components are exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
