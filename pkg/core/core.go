package core

import (
	"context"
	"time"
)

// Renderer draws a finalized chart. Implementations own the chart once Render is called.
type Renderer interface {
	Render(ctx context.Context, chart Chart) error
}

// RendererFunc adapts an ordinary function to the Renderer interface
type RendererFunc func(ctx context.Context, chart Chart) error

// Render calls f(ctx, chart).
func (f RendererFunc) Render(ctx context.Context, chart Chart) error {
	return f(ctx, chart)
}

// Record describes a chart kept in a ChartStore
type Record struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Series    int       `json:"series"`
	CreatedAt time.Time `json:"created_at"`
}

// ChartStore keeps finalized charts for later viewing
type ChartStore interface {
	// Save stores the chart and returns its identifier
	Save(chart Chart) (int64, error)

	// Chart returns a stored chart, ErrNotFound when the id is unknown
	Chart(id int64) (Chart, error)

	// List returns the stored charts ordered by creation time
	List() ([]Record, error)
}
