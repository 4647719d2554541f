// Package solvedac talks to the solved.ac REST API: tier lookup, solve
// checks and tagged problem search.
package solvedac

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/problemcrawl/internal/entity"
	"github.com/samdwyer/problemcrawl/internal/logger"
	"github.com/samdwyer/problemcrawl/internal/telemetry"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://solved.ac/api/v3"

// UnratedHandle is an account known to have tier 0. Lookups for it never
// leave the process.
const UnratedHandle = "total"

// Client implements the game's tier lookup, solve checker and problem
// searcher against solved.ac.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	log     *logrus.Entry
}

// NewClient creates a client. A zero timeout leaves requests bounded only by
// the caller's context; a nil http client uses http.DefaultClient.
func NewClient(baseURL string, timeout time.Duration, client *http.Client, log *logrus.Entry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  client,
		log:     log,
	}
}

type userResponse struct {
	Tier *int `json:"tier"`
}

type searchResponse struct {
	Count int           `json:"count"`
	Items []problemItem `json:"items"`
}

type problemItem struct {
	ProblemID int    `json:"problemId"`
	TitleKo   string `json:"titleKo"`
	Title     string `json:"title"`
	Level     int    `json:"level"`
	Tags      []struct {
		Key string `json:"key"`
	} `json:"tags"`
}

// summary converts a search item to a problem summary.
func (p problemItem) summary() entity.ProblemSummary {
	title := p.TitleKo
	if title == "" {
		title = p.Title
	}
	if title == "" {
		title = fmt.Sprintf("Problem %d", p.ProblemID)
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Key)
	}
	return entity.ProblemSummary{
		ID:    p.ProblemID,
		Title: title,
		Level: p.Level,
		Tags:  tags,
		URL:   entity.ProblemURL(p.ProblemID),
	}
}

// Tier returns the handle's tier. A user without a numeric tier is tier 0.
func (c *Client) Tier(ctx context.Context, handle string) (int, error) {
	if handle == UnratedHandle {
		return 0, nil
	}

	var resp userResponse
	if err := c.get(ctx, "/user/show", url.Values{"handle": {handle}}, &resp); err != nil {
		return 0, fmt.Errorf("tier for %s: %w", handle, err)
	}
	if resp.Tier == nil {
		return 0, nil
	}
	return *resp.Tier, nil
}

// Solved reports whether handle has solved problem id.
func (c *Client) Solved(ctx context.Context, handle string, problemID int) (bool, error) {
	q := url.Values{
		"query":     {fmt.Sprintf("id:%d s@%s", problemID, handle)},
		"sort":      {"id"},
		"direction": {"asc"},
	}
	var resp searchResponse
	if err := c.get(ctx, "/search/problem", q, &resp); err != nil {
		return false, fmt.Errorf("solved check %d for %s: %w", problemID, handle, err)
	}
	return resp.Count > 0, nil
}

// SearchProblem returns a random problem of the given level and tag that
// excludeHandle has not solved, or nil when none matches.
func (c *Client) SearchProblem(ctx context.Context, tag string, level int, excludeHandle string) (*entity.ProblemSummary, error) {
	query := "*" + strconv.Itoa(level) + " tag:" + tag
	if excludeHandle != "" {
		query += " -@" + excludeHandle
	}
	q := url.Values{
		"query": {query},
		"sort":  {"random"},
		"page":  {"1"},
	}
	var resp searchResponse
	if err := c.get(ctx, "/search/problem", q, &resp); err != nil {
		return nil, fmt.Errorf("search %s level %d: %w", tag, level, err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	s := resp.Items[0].summary()
	return &s, nil
}

// get issues a GET to path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	ctx, span := telemetry.Tracer("solvedac").Start(ctx, "solvedac.get")
	defer span.End()
	span.SetAttributes(attribute.String("http.path", path))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("solved.ac request")
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return fmt.Errorf("%s returned %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
