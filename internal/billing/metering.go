package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gateway/internal/infra"
)

// MeteringRecord is the usage event sent to the billing backend.
type MeteringRecord struct {
	MeteringID string  `json:"meteringId"`
	Cost       float64 `json:"cost"`
	IsFinal    bool    `json:"isFinal"`
}

// ReporterOptions configures the metering reporter.
type ReporterOptions struct {
	BaseURL    string
	AgentKey   string
	HTTPClient *http.Client
	Logger     *infra.Logger
	Now        func() time.Time
	Token      func() string
}

// Reporter emits best-effort usage records to the billing backend. A billing
// outage must never block image delivery, so Report swallows every failure
// and still hands back the generated metering id.
type Reporter struct {
	baseURL    string
	agentKey   string
	httpClient *http.Client
	logger     *infra.Logger
	now        func() time.Time
	token      func() string
}

// NewReporter constructs a reporter with sane defaults and injected dependencies.
func NewReporter(opts ReporterOptions) *Reporter {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	token := opts.Token
	if token == nil {
		token = randomToken
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &Reporter{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		agentKey:   opts.AgentKey,
		httpClient: httpClient,
		logger:     logger,
		now:        now,
		token:      token,
	}
}

// Report sends one usage record and returns the metering id it generated.
// Uniqueness of the id is probabilistic; collisions are neither detected nor
// retried, and a retried client call produces a fresh record.
func (r *Reporter) Report(ctx context.Context, sessionID string, cost float64, isFinal bool) string {
	meteringID := NewMeteringID(sessionID, r.now(), r.token())

	record := MeteringRecord{MeteringID: meteringID, Cost: cost, IsFinal: isFinal}
	if err := r.send(ctx, record); err != nil {
		// Metering failure is isolated from the response path.
		r.logger.Error().Err(err).
			Str("metering_id", meteringID).
			Float64("cost", cost).
			Msg("billing: metering report failed")
		return meteringID
	}

	r.logger.Info().
		Str("metering_id", meteringID).
		Float64("cost", cost).
		Bool("is_final", isFinal).
		Msg("billing: metering reported")
	return meteringID
}

func (r *Reporter) send(ctx context.Context, record MeteringRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("billing: encode record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/sessions/metering", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("billing: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.agentKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("billing: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("billing: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

// NewMeteringID joins the session, an epoch-millis timestamp, and a short
// random token with a fixed separator.
func NewMeteringID(sessionID string, ts time.Time, token string) string {
	return fmt.Sprintf("%s-%d-%s", sessionID, ts.UnixMilli(), token)
}

// randomToken derives a short slug from a fresh uuid.
func randomToken() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:7]
}
