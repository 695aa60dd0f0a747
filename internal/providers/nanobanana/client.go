package nanobanana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gateway/internal/infra"
)

// Sentinel errors for every non-success path of the generation protocol.
// There is no retry anywhere in this client: an HTTP-level failure aborts
// the whole job; only the pending/processing poll loop iterates.
var (
	ErrMissingAPIKey    = errors.New("nanobanana: api key is required")
	ErrSubmissionFailed = errors.New("nanobanana: task submission failed")
	ErrPollFailed       = errors.New("nanobanana: task status query failed")
	ErrTaskFailed       = errors.New("nanobanana: generation task failed")
	ErrMissingArtifact  = errors.New("nanobanana: completed task returned no image")
	ErrPollTimeout      = errors.New("nanobanana: task polling timed out")
)

// TaskStatus is the vendor-owned lifecycle state of a generation task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskInfo mirrors the vendor's task envelope.
type TaskInfo struct {
	ID        string     `json:"id"`
	Status    TaskStatus `json:"status"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

type createResponse struct {
	TaskInfo TaskInfo `json:"task_info"`
}

type resultResponse struct {
	TaskInfo TaskInfo `json:"task_info"`
	Images   []string `json:"images"`
}

type createRequest struct {
	Prompt         string `json:"prompt"`
	NumberOfImages int    `json:"number_of_images"`
	AspectRatio    string `json:"aspect_ratio"`
}

// SleepFunc suspends between poll attempts. Injectable so tests can drive
// the loop without real timers.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Generator is the contract the handlers depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Artifact, error)
}

// Options configures the nano-banana vendor client.
type Options struct {
	APIKey          string
	BaseURL         string
	NumberOfImages  int
	AspectRatio     string
	PollInterval    time.Duration
	MaxPollAttempts int
	HTTPClient      *http.Client
	Logger          *infra.Logger
	Sleep           SleepFunc
	RequestTimeout  time.Duration
}

// Client submits asynchronous generation tasks to the vendor and polls them
// to a terminal state.
type Client struct {
	apiKey          string
	baseURL         string
	numberOfImages  int
	aspectRatio     string
	pollInterval    time.Duration
	maxPollAttempts int
	httpClient      *http.Client
	logger          *infra.Logger
	sleep           SleepFunc
}

const generationPath = "/vendors/google/v1/nano-banana/generation"

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("nanobanana: base url is required")
	}
	numberOfImages := opts.NumberOfImages
	if numberOfImages <= 0 {
		numberOfImages = 1
	}
	aspectRatio := strings.TrimSpace(opts.AspectRatio)
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	maxPollAttempts := opts.MaxPollAttempts
	if maxPollAttempts <= 0 {
		maxPollAttempts = 60
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = waitFor
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &Client{
		apiKey:          strings.TrimSpace(opts.APIKey),
		baseURL:         baseURL,
		numberOfImages:  numberOfImages,
		aspectRatio:     aspectRatio,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
		httpClient:      httpClient,
		logger:          logger,
		sleep:           sleep,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Generate submits one generation task and polls it until it completes,
// fails, or the attempt limit runs out.
func (c *Client) Generate(ctx context.Context, prompt string) (Artifact, error) {
	if !c.HasCredentials() {
		return Artifact{}, ErrMissingAPIKey
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Artifact{}, errors.New("nanobanana: prompt is required")
	}

	task, err := c.submit(ctx, prompt)
	if err != nil {
		return Artifact{}, err
	}
	c.logger.Debug().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("nanobanana: task submitted")

	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.pollInterval); err != nil {
				return Artifact{}, fmt.Errorf("nanobanana: wait before poll: %w", err)
			}
		}

		result, err := c.queryTask(ctx, task.ID)
		if err != nil {
			return Artifact{}, err
		}

		switch result.TaskInfo.Status {
		case TaskStatusCompleted:
			if len(result.Images) == 0 {
				return Artifact{}, fmt.Errorf("%w (task %s)", ErrMissingArtifact, task.ID)
			}
			artifact, err := ParseArtifact(result.Images[0])
			if err != nil {
				return Artifact{}, err
			}
			c.logger.Info().
				Str("task_id", task.ID).
				Int("attempts", attempt).
				Msg("nanobanana: generation completed")
			return artifact, nil
		case TaskStatusFailed:
			return Artifact{}, fmt.Errorf("%w (task %s)", ErrTaskFailed, task.ID)
		default:
			// pending or processing, keep polling
			c.logger.Debug().
				Str("task_id", task.ID).
				Str("status", string(result.TaskInfo.Status)).
				Int("attempt", attempt).
				Msg("nanobanana: task not terminal yet")
		}
	}

	return Artifact{}, fmt.Errorf("%w (task %s after %d attempts)", ErrPollTimeout, task.ID, c.maxPollAttempts)
}

func (c *Client) submit(ctx context.Context, prompt string) (TaskInfo, error) {
	body, err := json.Marshal(createRequest{
		Prompt:         prompt,
		NumberOfImages: c.numberOfImages,
		AspectRatio:    c.aspectRatio,
	})
	if err != nil {
		return TaskInfo{}, fmt.Errorf("nanobanana: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generationPath, bytes.NewReader(body))
	if err != nil {
		return TaskInfo{}, fmt.Errorf("nanobanana: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TaskInfo{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return TaskInfo{}, fmt.Errorf("%w: read response: %v", ErrSubmissionFailed, err)
	}
	if resp.StatusCode >= 300 {
		return TaskInfo{}, fmt.Errorf("%w: status %d: %s", ErrSubmissionFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded createResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return TaskInfo{}, fmt.Errorf("%w: decode response: %v", ErrSubmissionFailed, err)
	}
	if decoded.TaskInfo.ID == "" {
		return TaskInfo{}, fmt.Errorf("%w: response carried no task id", ErrSubmissionFailed)
	}
	return decoded.TaskInfo, nil
}

func (c *Client) queryTask(ctx context.Context, taskID string) (resultResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+generationPath+"/"+taskID, nil)
	if err != nil {
		return resultResponse{}, fmt.Errorf("nanobanana: build query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return resultResponse{}, fmt.Errorf("%w: %v", ErrPollFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resultResponse{}, fmt.Errorf("%w: read response: %v", ErrPollFailed, err)
	}
	if resp.StatusCode >= 300 {
		return resultResponse{}, fmt.Errorf("%w: status %d: %s", ErrPollFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded resultResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return resultResponse{}, fmt.Errorf("%w: decode response: %v", ErrPollFailed, err)
	}
	return decoded, nil
}

// waitFor is the default SleepFunc, honoring context cancellation.
func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Generator = (*Client)(nil)
