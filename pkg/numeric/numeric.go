// Package numeric turns numeric containers into flat float64 sequences and point lists.
//
// The set of adapters is closed: flat slices, generic integer and float slices,
// gonum vectors, gonum spatial vectors and anything exposing Dims/At (gonum
// dense matrices, r3.Mat). Fixed size arrays take part by slicing, Values(a[:]).
package numeric

import (
	"reflect"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Adapter exposes a container as a read-only, ordered sequence of float64.
// Callers must not modify the returned slice, it may alias the container storage.
type Adapter interface {
	Float64s() []float64
}

// Matrix is a row/column addressable container, satisfied by gonum's mat.Matrix
// implementations and by r3.Mat
type Matrix interface {
	Dims() (r, c int)
	At(i, j int) float64
}

// Values is a flat slice of float64
type Values []float64

// Float64s returns v without copying.
func (v Values) Float64s() []float64 {
	return v
}

// Numbers adapts slices of any integer or float type, values are converted to float64
type Numbers[T constraints.Integer | constraints.Float] []T

// Float64s converts every element to float64.
func (n Numbers[T]) Float64s() []float64 {
	return lo.Map(n, func(v T, _ int) float64 {
		return float64(v)
	})
}

type vector struct {
	v mat.Vector
}

// Vector adapts a gonum vector. A *mat.VecDense with unit increment is exposed without copying.
func Vector(v mat.Vector) Adapter {
	return vector{v: v}
}

func (a vector) Float64s() []float64 {
	if isNil(a.v) {
		return nil
	}

	if dense, ok := a.v.(*mat.VecDense); ok {
		raw := dense.RawVector()
		if raw.Inc == 1 {
			return raw.Data[:raw.N]
		}
	}

	values := make([]float64, a.v.Len())
	for i := range values {
		values[i] = a.v.AtVec(i)
	}
	return values
}

type fixed []float64

func (f fixed) Float64s() []float64 {
	return f
}

// R2 adapts a fixed size 2D vector as [X, Y]
func R2(v r2.Vec) Adapter {
	return fixed{v.X, v.Y}
}

// R3 adapts a fixed size 3D vector as [X, Y, Z]
func R3(v r3.Vec) Adapter {
	return fixed{v.X, v.Y, v.Z}
}

type flat struct {
	m Matrix
}

// Flatten adapts a matrix as its row-major flat sequence. A contiguous
// *mat.Dense is exposed without copying.
func Flatten(m Matrix) Adapter {
	return flat{m: m}
}

func (a flat) Float64s() []float64 {
	if isNil(a.m) {
		return nil
	}

	if dense, ok := a.m.(*mat.Dense); ok {
		raw := dense.RawMatrix()
		if raw.Stride == raw.Cols {
			return raw.Data[:raw.Rows*raw.Cols]
		}
	}

	rows, cols := a.m.Dims()
	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			values = append(values, a.m.At(i, j))
		}
	}
	return values
}

// Rows returns one slice per matrix row. Rows of a *mat.Dense alias its storage.
func Rows(m Matrix) [][]float64 {
	if isNil(m) {
		return nil
	}

	rows, cols := m.Dims()
	out := make([][]float64, rows)

	if dense, ok := m.(*mat.Dense); ok {
		for i := range out {
			out[i] = dense.RawRowView(i)
		}
		return out
	}

	for i := range out {
		row := make([]float64, cols)
		for j := range row {
			row[j] = m.At(i, j)
		}
		out[i] = row
	}
	return out
}

// Len returns the number of values exposed by a, zero for a nil adapter
func Len(a Adapter) int {
	if a == nil {
		return 0
	}
	return len(a.Float64s())
}

// Slice returns the values of a, nil for a nil adapter
func Slice(a Adapter) []float64 {
	if a == nil {
		return nil
	}
	return a.Float64s()
}

// Enumerate pairs every value with its zero-based index as x
func Enumerate(ys []float64) []core.Point {
	return lo.Map(ys, func(y float64, i int) core.Point {
		return core.Point{X: float64(i), Y: y}
	})
}

// Zip pairs xs and ys element-wise. Pairing stops at the shorter input.
func Zip(xs, ys []float64) []core.Point {
	n := min(len(xs), len(ys))
	points := make([]core.Point, n)
	for i := 0; i < n; i++ {
		points[i] = core.Point{X: xs[i], Y: ys[i]}
	}
	return points
}

// isNil reports whether v is nil or a nil pointer held in an interface,
// such as a (*mat.Dense)(nil) passed as a Matrix
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
