// Package footballdata implements the client for the external fixture
// data provider (API-Football compatible v3 endpoints).
package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/tipsradar/settle-api/internal/models"
)

const defaultTimeout = 20 * time.Second

// Config configures the provider client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.SugaredLogger
}

// Client talks to the fixture provider. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	logger  *zap.SugaredLogger
}

// UpstreamError reports a non-200 provider response.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fixture provider: status %d", e.Status)
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		hc:      hc,
		logger:  cfg.Logger,
	}
}

// Provider wire types. Only the fields the engine reads are mapped.

type envelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64 `json:"id"`
		Status struct {
			Short   string `json:"short"`
			Elapsed int    `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
	Score struct {
		HalfTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"halftime"`
	} `json:"score"`
}

// LiveFixtures returns all matches currently in play.
func (c *Client) LiveFixtures(ctx context.Context) ([]models.Fixture, error) {
	return c.fetch(ctx, url.Values{"live": {"all"}})
}

// FixturesByDate returns all fixtures for a UTC date (YYYY-MM-DD),
// whatever their status.
func (c *Client) FixturesByDate(ctx context.Context, date string) ([]models.Fixture, error) {
	return c.fetch(ctx, url.Values{"date": {date}})
}

// FixtureByID looks up one fixture.
func (c *Client) FixtureByID(ctx context.Context, id int64) (*models.Fixture, error) {
	fixtures, err := c.fetch(ctx, url.Values{"id": {fmt.Sprint(id)}})
	if err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return nil, nil
	}
	return &fixtures[0], nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]models.Fixture, error) {
	endpoint := c.baseURL + "/fixtures?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-apisports-key", c.apiKey)

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fixture provider: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &UpstreamError{Status: res.StatusCode, Body: string(body)}
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	fixtures := make([]models.Fixture, 0, len(env.Response))
	for _, item := range env.Response {
		fixtures = append(fixtures, item.toFixture())
	}
	if c.logger != nil {
		c.logger.Debugw("Fixtures fetched", "params", params.Encode(), "count", len(fixtures))
	}
	return fixtures, nil
}

func (f fixtureItem) toFixture() models.Fixture {
	return models.Fixture{
		ID:             f.Fixture.ID,
		HomeTeamName:   f.Teams.Home.Name,
		AwayTeamName:   f.Teams.Away.Name,
		LeagueName:     f.League.Name,
		Status:         models.FixtureStatus(f.Fixture.Status.Short),
		HomeGoals:      intOrZero(f.Goals.Home),
		AwayGoals:      intOrZero(f.Goals.Away),
		HalfTimeHome:   intOrZero(f.Score.HalfTime.Home),
		HalfTimeAway:   intOrZero(f.Score.HalfTime.Away),
		ElapsedMinutes: f.Fixture.Status.Elapsed,
	}
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
