package numeric

import (
	"testing"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestAdapters_LengthAndOrder(t *testing.T) {
	array := [6]float64{1, 2, 3, 4, 5, 6}

	tests := []struct {
		name    string
		adapter Adapter
		want    []float64
	}{
		{"values", Values{1, 4, 9}, []float64{1, 4, 9}},
		{"fixed array", Values(array[:]), []float64{1, 2, 3, 4, 5, 6}},
		{"ints", Numbers[int]{3, 2, 1}, []float64{3, 2, 1}},
		{"float32", Numbers[float32]{0.5, 1.5}, []float64{0.5, 1.5}},
		{"vecdense", Vector(mat.NewVecDense(3, []float64{7, 8, 9})), []float64{7, 8, 9}},
		{"r2", R2(r2.Vec{X: 1, Y: 2}), []float64{1, 2}},
		{"r3", R3(r3.Vec{X: 1, Y: 2, Z: 3}), []float64{1, 2, 3}},
		{"dense", Flatten(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})), []float64{1, 2, 3, 4, 5, 6}},
		{"r3 mat", Flatten(r3.NewMat([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})),
			[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"empty", Values{}, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.adapter.Float64s()
			require.Len(t, got, len(tt.want))
			require.Equal(t, len(tt.want), Len(tt.adapter))
			for i := range tt.want {
				require.Equal(t, tt.want[i], got[i])
			}
		})
	}
}

func TestVector_NoCopy(t *testing.T) {
	data := []float64{1, 2, 3}
	got := Vector(mat.NewVecDense(3, data)).Float64s()
	data[0] = 10
	require.Equal(t, 10.0, got[0])
}

func TestVector_Strided(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	col := m.ColView(1)
	require.Equal(t, []float64{2, 4}, Vector(col).Float64s())
}

func TestFlatten_Slice(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	sub := m.Slice(1, 3, 1, 3)
	require.Equal(t, []float64{5, 6, 8, 9}, Flatten(sub).Float64s())
}

func TestRows(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	rows := Rows(m)
	require.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, rows)

	fixedRows := Rows(r3.NewMat([]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}))
	require.Len(t, fixedRows, 3)
	require.Equal(t, []float64{0, 1, 0}, fixedRows[1])
	require.Nil(t, Rows(nil))
}

func TestEnumerate(t *testing.T) {
	require.Equal(t,
		[]core.Point{{X: 0, Y: 1}, {X: 1, Y: 4}, {X: 2, Y: 9}},
		Enumerate([]float64{1, 4, 9}))
}

func TestZip_Truncates(t *testing.T) {
	require.Equal(t,
		[]core.Point{{X: 0, Y: 5}, {X: 1, Y: 6}},
		Zip([]float64{0, 1, 2}, []float64{5, 6}))
	require.Empty(t, Zip(nil, []float64{1}))
}

func TestAdapters_TypedNil(t *testing.T) {
	var vec *mat.VecDense
	var dense *mat.Dense
	var fixed *r3.Mat

	assert.NotPanics(t, func() {
		assert.Empty(t, Vector(vec).Float64s())
		assert.Equal(t, 0, Len(Vector(vec)))
		assert.Empty(t, Flatten(dense).Float64s())
		assert.Empty(t, Rows(dense))
		assert.Empty(t, Rows(fixed))
	})
}
