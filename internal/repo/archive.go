package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/scatterstack/scatter-culprit/internal/models"
)

// StateSample is one instrument-state reading.
type StateSample struct {
	Time  float64
	Value float64
}

// StateSegment is a contiguous run of instrument-state samples. Segmented
// instruments report one segment per stretch of continuous data.
type StateSegment struct {
	Samples []StateSample
}

// ArchiveClient wraps the data-archive service endpoints for channel
// matrices, instrument state, and spectral statistics. All calls are
// synchronous and blocking; the client performs no retries.
type ArchiveClient struct {
	baseURL      string
	channelsPath string
	statePath    string
	meanFreqPath string
	httpClient   *http.Client
}

// NewArchiveClient constructs a client targeting the configured archive service.
func NewArchiveClient(baseURL, channelsPath, statePath, meanFreqPath string, timeout time.Duration) *ArchiveClient {
	return &ArchiveClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		channelsPath: channelsPath,
		statePath:    statePath,
		meanFreqPath: meanFreqPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchChannels retrieves a resampled multi-channel matrix over [start, end).
// The first returned channel is the target. The archive may adjust the
// requested rate; the resolved rate is returned and must be propagated
// downstream by callers.
func (c *ArchiveClient) FetchChannels(ctx context.Context, target string, candidates []string, start, end, rate float64) (models.ChannelMatrix, float64, error) {
	if c == nil {
		return models.ChannelMatrix{}, 0, fmt.Errorf("archive client not initialised")
	}
	if c.baseURL == "" {
		return models.ChannelMatrix{}, 0, fmt.Errorf("archive base URL not configured")
	}

	payload := map[string]interface{}{
		"target":     target,
		"candidates": candidates,
		"start":      start,
		"end":        end,
		"rate":       rate,
	}

	var response struct {
		Rate     float64 `json:"rate"`
		Channels []struct {
			Name    string    `json:"name"`
			Samples []float64 `json:"samples"`
		} `json:"channels"`
	}

	if err := c.postJSON(ctx, c.resolvePath(c.channelsPath), payload, &response); err != nil {
		return models.ChannelMatrix{}, 0, fmt.Errorf("archive channels request failed: %w", err)
	}
	if len(response.Channels) == 0 {
		return models.ChannelMatrix{}, 0, fmt.Errorf("archive returned no channels")
	}

	matrix := models.ChannelMatrix{
		Names:  make([]string, 0, len(response.Channels)),
		Series: make([][]float64, 0, len(response.Channels)),
	}
	for _, ch := range response.Channels {
		matrix.Names = append(matrix.Names, ch.Name)
		matrix.Series = append(matrix.Series, ch.Samples)
	}
	if matrix.Names[0] != target {
		return models.ChannelMatrix{}, 0, fmt.Errorf("archive returned %s first, want target %s", matrix.Names[0], target)
	}
	if err := matrix.Validate(); err != nil {
		return models.ChannelMatrix{}, 0, fmt.Errorf("archive channel matrix: %w", err)
	}

	resolvedRate := response.Rate
	if resolvedRate <= 0 {
		resolvedRate = rate
	}
	return matrix, resolvedRate, nil
}

// FetchInstrumentState retrieves lock-state segments for a channel over
// [start, end).
func (c *ArchiveClient) FetchInstrumentState(ctx context.Context, channel string, start, end float64) ([]StateSegment, error) {
	if c == nil {
		return nil, fmt.Errorf("archive client not initialised")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("archive base URL not configured")
	}

	payload := map[string]interface{}{
		"channel": channel,
		"start":   start,
		"end":     end,
	}

	var response struct {
		Segments []struct {
			Samples []struct {
				Time  float64 `json:"time"`
				Value float64 `json:"value"`
			} `json:"samples"`
		} `json:"segments"`
	}

	if err := c.postJSON(ctx, c.resolvePath(c.statePath), payload, &response); err != nil {
		return nil, fmt.Errorf("archive state request failed: %w", err)
	}

	segments := make([]StateSegment, 0, len(response.Segments))
	for _, seg := range response.Segments {
		samples := make([]StateSample, 0, len(seg.Samples))
		for _, s := range seg.Samples {
			samples = append(samples, StateSample{Time: s.Time, Value: s.Value})
		}
		segments = append(segments, StateSegment{Samples: samples})
	}
	return segments, nil
}

// MeanFrequency asks the archive for the mean spectral frequency of a
// channel over [start, end), restricted to the given bandpass limits.
func (c *ArchiveClient) MeanFrequency(ctx context.Context, channel string, start, end float64, band [2]float64) (float64, error) {
	if c == nil {
		return 0, fmt.Errorf("archive client not initialised")
	}
	if c.baseURL == "" {
		return 0, fmt.Errorf("archive base URL not configured")
	}

	payload := map[string]interface{}{
		"channel":   channel,
		"start":     start,
		"end":       end,
		"band_low":  band[0],
		"band_high": band[1],
	}

	var response struct {
		MeanFrequency float64 `json:"mean_frequency"`
	}

	if err := c.postJSON(ctx, c.resolvePath(c.meanFreqPath), payload, &response); err != nil {
		return 0, fmt.Errorf("archive mean-frequency request failed: %w", err)
	}
	return response.MeanFrequency, nil
}

func (c *ArchiveClient) resolvePath(p string) string {
	if c.baseURL == "" {
		return ""
	}
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *ArchiveClient) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("archive returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
