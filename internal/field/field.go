package field

import (
	"fmt"
	"math"
)

// Field is a real-valued array over a uniform periodic grid. Data is stored
// flat in row-major order; Shape holds the per-axis grid sizes.
type Field struct {
	Shape []int
	Data  []float64
}

// New allocates a zero field with the given shape. All axis sizes must be
// positive.
func New(shape ...int) Field {
	n := 1
	for _, s := range shape {
		if s <= 0 {
			panic(fmt.Sprintf("field: non-positive axis size %d", s))
		}
		n *= s
	}
	return Field{Shape: append([]int(nil), shape...), Data: make([]float64, n)}
}

// Square2D reports whether the field is 2D with equal axis sizes.
func (f Field) Square2D() bool {
	return len(f.Shape) == 2 && f.Shape[0] == f.Shape[1]
}

func (f Field) Dim() int { return len(f.Shape) }

func (f Field) Len() int { return len(f.Data) }

// At2 returns the value at row i, column j of a 2D field.
func (f Field) At2(i, j int) float64 { return f.Data[i*f.Shape[1]+j] }

// Set2 sets the value at row i, column j of a 2D field.
func (f Field) Set2(i, j int, v float64) { f.Data[i*f.Shape[1]+j] = v }

func (f Field) Clone() Field {
	c := Field{Shape: append([]int(nil), f.Shape...), Data: make([]float64, len(f.Data))}
	copy(c.Data, f.Data)
	return c
}

// Mean returns the spatial mean over all grid points.
func (f Field) Mean() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range f.Data {
		sum += v
	}
	return sum / float64(len(f.Data))
}

// IsFinite reports whether every value is finite (no NaN or Inf).
func (f Field) IsFinite() bool {
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SameShape reports whether f and g have identical shapes.
func (f Field) SameShape(g Field) bool {
	if len(f.Shape) != len(g.Shape) {
		return false
	}
	for i := range f.Shape {
		if f.Shape[i] != g.Shape[i] {
			return false
		}
	}
	return true
}

// Batch is an ordered collection of fields, one per realization.
type Batch []Field

// Uniform reports whether every field in the batch shares the shape of the
// first one. An empty batch is uniform.
func (b Batch) Uniform() bool {
	for i := 1; i < len(b); i++ {
		if !b[0].SameShape(b[i]) {
			return false
		}
	}
	return true
}

// ShapeError reports an array whose shape is incompatible with what an
// operation required.
type ShapeError struct {
	Op   string
	Want []int
	Got  []int
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: want %v, got %v", e.Op, e.Want, e.Got)
}
