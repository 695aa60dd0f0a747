package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"gateway/internal/infra"
)

func newDownloadApp(fetch *http.Client) *App {
	logger := infra.Logger(zerolog.New(io.Discard))
	return &App{Logger: logger, Fetch: fetch}
}

func doDownload(app *App, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/download-image", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	app.DownloadImage(rec, req)
	return rec
}

func TestDownloadImageProxiesBytes(t *testing.T) {
	imageBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(imageBytes)
	}))
	defer upstream.Close()

	app := newDownloadApp(upstream.Client())
	rec := doDownload(app, map[string]string{"imageUrl": upstream.URL + "/out.png"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="nano-banana.png"` {
		t.Fatalf("content-disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("content-type = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), imageBytes) {
		t.Fatalf("body mismatch: %v", rec.Body.Bytes())
	}
}

func TestDownloadImageRequiresURL(t *testing.T) {
	app := newDownloadApp(nil)
	rec := doDownload(app, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDownloadImageRejectsNonHTTPScheme(t *testing.T) {
	app := newDownloadApp(nil)
	rec := doDownload(app, map[string]string{"imageUrl": "file:///etc/passwd"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDownloadImageUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer upstream.Close()

	app := newDownloadApp(upstream.Client())
	rec := doDownload(app, map[string]string{"imageUrl": upstream.URL + "/missing.png"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Success {
		t.Fatalf("success must be false")
	}
}
