package core

import (
	"encoding/json"
	"math"
)

// Point is a single (x, y) coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// jsonPoint encodes NaN and infinite coordinates as null
type jsonPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// MarshalJSON implements json.Marshaler. Coordinates that are not finite become null.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPoint{X: finitePtr(p.X), Y: finitePtr(p.Y)})
}

// UnmarshalJSON implements json.Unmarshaler. Null coordinates decode as NaN.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw jsonPoint
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.X, p.Y = math.NaN(), math.NaN()
	if raw.X != nil {
		p.X = *raw.X
	}
	if raw.Y != nil {
		p.Y = *raw.Y
	}
	return nil
}

func finitePtr(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}

// LineStyle selects how the line through a series is stroked
type LineStyle int

const (
	Solid LineStyle = iota
	Dashed
	Dotted
)

// String returns the lowercase style name
func (s LineStyle) String() string {
	switch s {
	case Dashed:
		return "dashed"
	case Dotted:
		return "dotted"
	default:
		return "solid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s LineStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode as Solid.
func (s *LineStyle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "dashed":
		*s = Dashed
	case "dotted":
		*s = Dotted
	default:
		*s = Solid
	}
	return nil
}

// Series is one named, styled and colored trace of points.
// Points are kept in insertion order, which is also the drawing order.
type Series struct {
	Name    string  `json:"name"`
	Points  []Point `json:"points"`
	Color   Color   `json:"color"`
	Dashed  bool    `json:"dashed"`
	Dotted  bool    `json:"dotted"`
	Pointed bool    `json:"pointed"`
}

// Style resolves the line style flags, dashed wins over dotted
func (s Series) Style() LineStyle {
	switch {
	case s.Dashed:
		return Dashed
	case s.Dotted:
		return Dotted
	default:
		return Solid
	}
}

// Len returns the number of points in the series
func (s Series) Len() int {
	return len(s.Points)
}

// Xs returns the x coordinates in order
func (s Series) Xs() []float64 {
	xs := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.X
	}
	return xs
}

// Ys returns the y coordinates in order
func (s Series) Ys() []float64 {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return ys
}

// Clone returns a copy that shares no memory with s
func (s Series) Clone() Series {
	c := s
	c.Points = append([]Point(nil), s.Points...)
	return c
}
