package language

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/caremate-health/caremate/pkg/logging"
)

// RemoteDetector calls an external language-detection service. It satisfies
// the same Classifier capability as Heuristic so the two are interchangeable
// by configuration. Detection stays a total function: any failure falls back
// to the heuristic table rather than surfacing an error.
type RemoteDetector struct {
	baseURL    string
	httpClient *http.Client
	fallback   *Heuristic
	logger     *logging.Logger
}

// NewRemoteDetector builds a detector client against the given base URL.
func NewRemoteDetector(baseURL string, logger *logging.Logger) *RemoteDetector {
	if logger == nil {
		logger = logging.Default()
	}
	return &RemoteDetector{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		fallback: NewHeuristic(),
		logger:   logger,
	}
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Classify asks the remote service for the language of text.
func (d *RemoteDetector) Classify(text string) string {
	if strings.TrimSpace(text) == "" {
		return DefaultCode
	}

	payload, err := json.Marshal(detectRequest{Text: text})
	if err != nil {
		return d.fallback.Classify(text)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return d.fallback.Classify(text)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Warn("language detector unreachable, using heuristic", "error", err)
		return d.fallback.Classify(text)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Warn("language detector rejected request, using heuristic", "status", resp.StatusCode)
		return d.fallback.Classify(text)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Language == "" {
		return d.fallback.Classify(text)
	}
	return out.Language
}
