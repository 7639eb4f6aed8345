package footage

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := NewHandler(newTestService(0), log)

	r := chi.NewRouter()
	r.Route("/api/clips", h.Register)
	return r
}

func TestHandler_ListClips(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/clips?date=2025-04-04", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Date  string `json:"date"`
		Clips []struct {
			Key       string `json:"key"`
			StartTime string `json:"startTime"`
			EndTime   string `json:"endTime"`
		} `json:"clips"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Clips) != 4 {
		t.Fatalf("expected 4 clips, got %d", len(body.Clips))
	}
	if body.Clips[1].Key != "2025-04-04_1455.mp4" || body.Clips[1].EndTime != "15:00" {
		t.Errorf("unexpected clip %+v", body.Clips[1])
	}
}

func TestHandler_ListClips_bad_request(t *testing.T) {
	r := newTestRouter(t)

	for _, target := range []string{"/api/clips", "/api/clips?date=tomorrow"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_GetURL(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips/2025-04-04_1500.mp4/url", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["url"] != "http://cdn/2025-04-04_1500.mp4" {
		t.Errorf("unexpected url %q", body["url"])
	}
}

func TestHandler_GetURL_not_found(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips/2025-04-04_1505.mp4/url", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_GetPlaylist(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips/playlist.m3u8?date=2025-04-04&from=14:50", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != playlistContentType {
		t.Errorf("expected content type %q, got %q", playlistContentType, ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "#EXTM3U\n") {
		t.Errorf("playlist should start with #EXTM3U: %q", body)
	}
	if strings.Count(body, "#EXTINF") != 3 {
		t.Errorf("expected 3 clips before the gap: %q", body)
	}
}

func TestHandler_GetPlaylist_not_found(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips/playlist.m3u8?date=2025-04-04&from=09:00", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
