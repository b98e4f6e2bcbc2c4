package web

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/raykavin/miniplot/pkg/core"
)

// handleHealth reports the server status and how many charts it holds
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	status := health{Status: "ok"}
	for range s.ids.Iter() {
		status.Charts++
	}
	if !s.lastUpdate.IsZero() {
		status.LastUpdate = s.lastUpdate.Format(time.RFC3339)
	}
	s.Unlock()

	s.writeJSON(w, status)
}

// handleIndex handles the main page request
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	records, err := s.store.List()
	if err != nil {
		s.log.Error("Failed to list charts: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Redirect to the latest chart when none was requested
	if r.URL.Query().Get("id") == "" {
		if latest := s.latest(); latest > 0 {
			http.Redirect(w, r, fmt.Sprintf("/?id=%d", latest), http.StatusFound)
			return
		}
	}

	id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	title := "miniplot"
	for _, record := range records {
		if record.ID == id {
			title = record.Title
		}
	}

	w.Header().Set("Content-Type", "text/html")
	err = s.indexHTML.Execute(w, map[string]any{
		"id":     id,
		"title":  title,
		"charts": records,
	})
	if err != nil {
		s.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleCharts lists the stored charts as JSON
func (s *Server) handleCharts(w http.ResponseWriter, _ *http.Request) {
	records, err := s.store.List()
	if err != nil {
		s.log.Error("Failed to list charts: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, records)
}

// handleData returns a chart as JSON
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.requestedChart(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, chart)
}

// handleExport returns the points of a chart as CSV
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.requestedChart(w, r)
	if !ok {
		return
	}

	buffer := bytes.NewBuffer(nil)
	csvWriter := csv.NewWriter(buffer)

	if err := csvWriter.Write([]string{"series", "x", "y"}); err != nil {
		s.log.Error("Failed writing CSV header: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	for _, series := range chart.Series {
		for _, point := range series.Points {
			err := csvWriter.Write([]string{
				series.Name,
				strconv.FormatFloat(point.X, 'g', -1, 64),
				strconv.FormatFloat(point.Y, 'g', -1, 64),
			})
			if err != nil {
				s.log.Error("Failed writing CSV data: ", err)
				http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
				return
			}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		s.log.Error("Failed writing CSV data: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=chart_%d.csv", s.requestedID(r)))
	if _, err := w.Write(buffer.Bytes()); err != nil {
		s.log.Error("Failed writing CSV response: ", err)
	}
}

// handlePNG rasterizes a chart
func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.requestedChart(w, r)
	if !ok {
		return
	}

	buffer := bytes.NewBuffer(nil)
	if err := s.raster.Encode(buffer, chart); err != nil {
		s.log.Error("Failed to rasterize chart: ", err)
		http.Error(w, "Failed to draw chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(buffer.Bytes()); err != nil {
		s.log.Error("Failed writing PNG response: ", err)
	}
}

// requestedID parses the id query parameter, falling back to the latest chart
func (s *Server) requestedID(r *http.Request) int64 {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return s.latest()
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return -1
	}
	return id
}

// requestedChart loads the chart named by the request and writes an error response when it fails
func (s *Server) requestedChart(w http.ResponseWriter, r *http.Request) (core.Chart, bool) {
	id := s.requestedID(r)
	if id < 0 {
		http.Error(w, "Invalid chart id", http.StatusBadRequest)
		return core.Chart{}, false
	}

	chart, err := s.store.Chart(id)
	if errors.Is(err, core.ErrNotFound) {
		http.Error(w, "Chart not found", http.StatusNotFound)
		return core.Chart{}, false
	}
	if err != nil {
		s.log.Error("Failed to load chart: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return core.Chart{}, false
	}

	return chart, true
}

func (s *Server) writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
