// Package docintel calls the external structured table-extraction service.
// The service is billed per analyzed page; the pipeline invokes it exactly
// once per template, scoped to the template's first page, so aggregate cost
// is a linear function of the template count.
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sfdrtools/sfdr-validator/internal/common"
)

// Config configures the extraction client.
type Config struct {
	// Endpoint is the service base URL.
	Endpoint string

	// APIKey authenticates the request.
	APIKey string

	// ModelID is the fixed extraction-model identifier trained on the
	// first-page table of the Article 8 template.
	ModelID string

	// Timeout bounds each HTTP call. Default: 60s.
	Timeout time.Duration

	// PollInterval is the wait between result polls. Default: 2s.
	PollInterval time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Extractor is the boundary the pipeline depends on.
type Extractor interface {
	// ExtractPage analyzes a single page of the document and returns the
	// named fields of the trained model as strings. Selection marks carry
	// "selected" or "unselected".
	ExtractPage(ctx context.Context, document []byte, page int) (map[string]string, error)
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  cfg.Logger,
	}
}

const apiVersion = "2023-07-31"

// analyzeResponse is the polled result envelope.
type analyzeResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Documents []struct {
			Fields map[string]fieldValue `json:"fields"`
		} `json:"documents"`
	} `json:"analyzeResult"`
}

// fieldValue covers the field types the template model produces.
type fieldValue struct {
	Type               string   `json:"type"`
	Content            string   `json:"content"`
	ValueString        string   `json:"valueString"`
	ValueSelectionMark string   `json:"valueSelectionMark"`
	ValueNumber        *float64 `json:"valueNumber"`
}

func (f fieldValue) text() string {
	switch f.Type {
	case "selectionMark":
		return f.ValueSelectionMark
	case "string":
		if f.ValueString != "" {
			return f.ValueString
		}
		return f.Content
	case "number":
		if f.ValueNumber != nil {
			return strconv.FormatFloat(*f.ValueNumber, 'f', -1, 64)
		}
		return f.Content
	default:
		return f.Content
	}
}

// ExtractPage submits the document for analysis of one page and polls until
// the service reports a terminal state.
func (c *Client) ExtractPage(ctx context.Context, document []byte, page int) (map[string]string, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.log.Info("docintel.analyze.start",
		"req_id", rid, "model_id", c.cfg.ModelID, "page", page, "doc_bytes", len(document))

	opURL, err := c.beginAnalyze(ctx, document, page)
	if err != nil {
		c.log.Error("docintel.analyze.submit_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("submit analyze: %w", err)
	}

	result, err := c.pollResult(ctx, opURL)
	if err != nil {
		c.log.Error("docintel.analyze.poll_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("poll analyze result: %w", err)
	}

	fields := map[string]string{}
	for _, doc := range result.AnalyzeResult.Documents {
		for name, value := range doc.Fields {
			fields[name] = value.text()
		}
	}

	c.log.Info("docintel.analyze.ok",
		"req_id", rid, "page", page, "fields", len(fields),
		"elapsed_ms", time.Since(start).Milliseconds())
	return fields, nil
}

func (c *Client) beginAnalyze(ctx context.Context, document []byte, page int) (string, error) {
	url := fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?pages=%d&api-version=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.ModelID, page, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(document))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("missing Operation-Location header")
	}
	return opURL, nil
}

func (c *Client) pollResult(ctx context.Context, opURL string) (*analyzeResponse, error) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}

		var result analyzeResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&result)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d while polling", resp.StatusCode)
		}
		if decodeErr != nil {
			return nil, fmt.Errorf("decode poll response: %w", decodeErr)
		}

		switch result.Status {
		case "succeeded":
			return &result, nil
		case "failed":
			return nil, fmt.Errorf("analysis failed")
		}
		// notStarted / running: keep polling
	}
}
