package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/talentlab/internal/domain/types"
)

// Outcome of one submission.
type Outcome int

// Submission outcomes.
const (
	OutcomeAccepted Outcome = iota
	OutcomeDuplicate
	OutcomeFailed
)

// Client talks to the talentlab HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Submit posts one evaluation. 202 means accepted and 200 a duplicate; any
// other status is a failure carrying the response body.
func (c *Client) Submit(ctx context.Context, ev *Evaluation) (Outcome, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("marshal evaluation: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/evaluations", bytes.NewReader(body))
	if err != nil {
		return OutcomeFailed, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return OutcomeFailed, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return OutcomeAccepted, nil
	case http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return OutcomeDuplicate, nil
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return OutcomeFailed, fmt.Errorf("submit %s: status %d: %s", ev.EvaluationID, resp.StatusCode, bytes.TrimSpace(msg))
	}
}

// Leaderboard fetches the top n entries.
func (c *Client) Leaderboard(ctx context.Context, n int) ([]types.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/leaderboard?limit="+strconv.Itoa(n), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard: status %d", resp.StatusCode)
	}
	var entries []types.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}
