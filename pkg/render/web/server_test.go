package web

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/render/raster"
	"github.com/raykavin/miniplot/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChart() core.Chart {
	return core.Chart{
		Options: core.Options{Title: "Squares", XLabel: "n", Legend: true},
		Series: []core.Series{
			{
				Name:    "Line 0",
				Color:   core.Blue,
				Pointed: true,
				Points:  []core.Point{{X: 0, Y: 1}, {X: 1, Y: 4}, {X: 2, Y: 9}},
			},
			{
				Name:   "Row 0",
				Color:  core.Red,
				Dashed: true,
				Points: []core.Point{{X: 0, Y: 2}},
			},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(WithPort(0), WithRaster(raster.New(raster.WithSize(200, 150))))
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func get(t *testing.T, handler http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, url, nil))
	return recorder
}

func TestServer_Data(t *testing.T) {
	s := newTestServer(t)
	id, err := s.Publish(testChart())
	require.NoError(t, err)
	handler := s.Handler()

	resp := get(t, handler, "/data")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	var chart core.Chart
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &chart))
	assert.Equal(t, testChart(), chart)

	resp = get(t, handler, "/data?id="+strconv.FormatInt(id, 10))
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Equal(t, http.StatusNotFound, get(t, handler, "/data?id=42").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, handler, "/data?id=abc").Code)
}

func TestServer_Export(t *testing.T) {
	s := newTestServer(t)
	_, err := s.Publish(testChart())
	require.NoError(t, err)

	resp := get(t, s.Handler(), "/export?id=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))

	rows, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"series", "x", "y"},
		{"Line 0", "0", "1"},
		{"Line 0", "1", "4"},
		{"Line 0", "2", "9"},
		{"Row 0", "0", "2"},
	}, rows)
}

func TestServer_PNG(t *testing.T) {
	s := newTestServer(t)
	_, err := s.Publish(testChart())
	require.NoError(t, err)

	resp := get(t, s.Handler(), "/chart.png?id=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestServer_IndexAndList(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	resp := get(t, handler, "/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "No chart published yet")

	_, err := s.Publish(testChart())
	require.NoError(t, err)
	second := testChart()
	second.Options.Title = "Cubes"
	_, err = s.Publish(second)
	require.NoError(t, err)

	resp = get(t, handler, "/")
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/?id=2", resp.Header().Get("Location"))

	resp = get(t, handler, "/?id=1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "<title>Squares</title>")
	assert.Contains(t, resp.Body.String(), "Cubes")

	resp = get(t, handler, "/charts")
	require.Equal(t, http.StatusOK, resp.Code)
	var records []core.Record
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Cubes", records[1].Title)

	assert.Equal(t, http.StatusNotFound, get(t, handler, "/missing").Code)
}

func TestServer_Assets(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	resp := get(t, handler, "/assets/chart.js")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/javascript", resp.Header().Get("Content-Type"))
	assert.NotEmpty(t, resp.Body.String())

	resp = get(t, handler, "/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}

func TestServer_WebSocket(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.Handler())
	defer server.Close()
	defer s.hub.close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello message
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "hello", hello.Type)

	id, err := s.Publish(testChart())
	require.NoError(t, err)

	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "chart", msg.Type)
	assert.Equal(t, id, msg.Payload.ID)
	assert.Equal(t, "Squares", msg.Payload.Title)
}

func TestServer_Serve(t *testing.T) {
	s := newTestServer(t)
	_, err := s.Publish(testChart())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx)
	}()

	readyCtx, readyCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer readyCancel()
	require.NoError(t, s.WaitReady(readyCtx))

	resp, err := http.Get(s.URL() + "/data?id=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Error(t, s.Serve(ctx))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_Close(t *testing.T) {
	owned, err := storage.FromMemory()
	require.NoError(t, err)
	shared, err := storage.FromMemory()
	require.NoError(t, err)
	defer shared.Close()

	s, err := NewServer(WithOwnedStore(owned))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = owned.List()
	require.Error(t, err)

	select {
	case <-s.hub.done:
	default:
		t.Fatal("hub still running after Close")
	}

	s, err = NewServer(WithStore(shared))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = shared.List()
	require.NoError(t, err)
}
