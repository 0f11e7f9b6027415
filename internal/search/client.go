package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client queries the GitHub repository search API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger

	// Stats records the latency of every HTTP attempt.
	Stats *Stats

	backoff func(attempt int) time.Duration
}

func NewClient(baseURL, token string, timeout time.Duration, stats *Stats, log *slog.Logger) *Client {
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:     log,
		Stats:   stats,
		backoff: Backoff,
	}
}

// Query selects one page of search results.
type Query struct {
	Q       string
	Page    int
	PerPage int
}

// Owner is the account owning a repository.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// Repository is a single search hit.
type Repository struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	Owner           Owner  `json:"owner"`
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}

// Search fetches one page of repositories, retrying transient failures.
func (c *Client) Search(ctx context.Context, q Query) ([]Repository, error) {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		repos, err := c.searchOnce(ctx, q)
		if err == nil {
			return repos, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		if c.log != nil {
			c.log.Warn("retryable search error", "page", q.Page, "attempt", attempt, "error", err)
		}
		select {
		case <-time.After(c.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) searchOnce(ctx context.Context, q Query) (repos []Repository, err error) {
	start := time.Now()
	defer func() { c.Stats.Record(time.Since(start), err != nil) }()

	params := url.Values{}
	params.Set("q", q.Q)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PerPage))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/repositories?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search repositories: status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var result searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if result.Items == nil {
		result.Items = []Repository{}
	}
	return result.Items, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
