// Package palette assigns series colors deterministically from a fixed, ordered palette.
package palette

import "github.com/raykavin/miniplot/pkg/core"

// Palette is an ordered list of colors cycled by a one-based index
type Palette []core.Color

// Default is the Tableau 10 qualitative palette
var Default = Palette{
	core.RGB(0x1f, 0x77, 0xb4), // blue
	core.RGB(0xff, 0x7f, 0x0e), // orange
	core.RGB(0x2c, 0xa0, 0x2c), // green
	core.RGB(0xd6, 0x27, 0x28), // red
	core.RGB(0x94, 0x67, 0xbd), // purple
	core.RGB(0x8c, 0x56, 0x4b), // brown
	core.RGB(0xe3, 0x77, 0xc2), // pink
	core.RGB(0x7f, 0x7f, 0x7f), // gray
	core.RGB(0xbc, 0xbd, 0x22), // olive
	core.RGB(0x17, 0xbe, 0xcf), // cyan
}

// At returns the color for the one-based index k.
// The result depends only on k and repeats every len(p) indices, index 0 is reserved
// and lands on the last entry. An empty palette falls back to Default.
func (p Palette) At(k int) core.Color {
	if len(p) == 0 {
		p = Default
	}
	n := len(p)
	return p[((k-1)%n+n)%n]
}

// Next returns Default.At(k)
func Next(k int) core.Color {
	return Default.At(k)
}

// Allocator hands out one color per call, advancing a one-based counter
type Allocator struct {
	palette Palette
	count   int
}

// NewAllocator creates an allocator over p, nil selects Default
func NewAllocator(p Palette) *Allocator {
	if len(p) == 0 {
		p = Default
	}
	return &Allocator{palette: p}
}

// Next advances the counter and returns the color for the new index
func (a *Allocator) Next() core.Color {
	a.count++
	return a.palette.At(a.count)
}

// Count returns how many colors were handed out
func (a *Allocator) Count() int {
	return a.count
}
