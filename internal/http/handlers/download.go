package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

type downloadRequest struct {
	ImageURL string `json:"imageUrl"`
}

// DownloadImage proxies a generated image so the browser can save it as a
// file; the vendor's CDN does not send the headers a direct download needs.
func (a *App) DownloadImage(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
		a.fail(w, r, http.StatusBadRequest, CodeMissingParams)
		return
	}

	parsed, err := url.Parse(req.ImageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		a.failWith(w, http.StatusBadRequest, CodeMissingParams, "imageUrl must be an http(s) URL")
		return
	}

	fetch := a.Fetch
	if fetch == nil {
		fetch = http.DefaultClient
	}
	upstream, err := http.NewRequestWithContext(r.Context(), http.MethodGet, parsed.String(), nil)
	if err != nil {
		a.failWith(w, http.StatusInternalServerError, CodeGenerationError, "failed to fetch image")
		return
	}
	resp, err := fetch.Do(upstream)
	if err != nil {
		a.Logger.Error().Err(err).Str("image_url", req.ImageURL).Msg("download: fetch failed")
		a.failWith(w, http.StatusInternalServerError, CodeGenerationError, "failed to fetch image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		a.Logger.Error().Int("status", resp.StatusCode).Str("image_url", req.ImageURL).Msg("download: upstream rejected fetch")
		a.failWith(w, http.StatusInternalServerError, CodeGenerationError, "failed to fetch image")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="nano-banana.png"`)
	if _, err := io.Copy(w, resp.Body); err != nil {
		a.Logger.Warn().Err(err).Msg("download: stream interrupted")
	}
}
