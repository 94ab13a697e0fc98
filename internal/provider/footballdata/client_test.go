package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const fixturePayload = `{
	"response": [
		{
			"fixture": {"id": 871234, "status": {"short": "2H", "elapsed": 67}},
			"league": {"name": "Primeira Liga", "country": "Portugal"},
			"teams": {"home": {"name": "FC Porto"}, "away": {"name": "SL Benfica"}},
			"goals": {"home": 2, "away": 1},
			"score": {"halftime": {"home": 1, "away": 0}}
		},
		{
			"fixture": {"id": 871235, "status": {"short": "NS"}},
			"league": {"name": "Super Lig"},
			"teams": {"home": {"name": "Galatasaray"}, "away": {"name": "Fenerbahce"}},
			"goals": {"home": null, "away": null},
			"score": {"halftime": {"home": null, "away": null}}
		}
	]
}`

func TestLiveFixtures(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-apisports-key")
		w.Write([]byte(fixturePayload))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "test-key"})
	fixtures, err := c.LiveFixtures(context.Background())
	if err != nil {
		t.Fatalf("LiveFixtures: %v", err)
	}

	if gotPath != "/fixtures" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "live=all" {
		t.Errorf("query = %q, want live=all", gotQuery)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}

	if len(fixtures) != 2 {
		t.Fatalf("got %d fixtures, want 2", len(fixtures))
	}

	f := fixtures[0]
	if f.ID != 871234 || f.Status != "2H" || f.ElapsedMinutes != 67 {
		t.Errorf("fixture = %+v", f)
	}
	if f.HomeTeamName != "FC Porto" || f.AwayTeamName != "SL Benfica" || f.LeagueName != "Primeira Liga" {
		t.Errorf("names = %q / %q / %q", f.HomeTeamName, f.AwayTeamName, f.LeagueName)
	}
	if f.HomeGoals != 2 || f.AwayGoals != 1 || f.HalfTimeHome != 1 || f.HalfTimeAway != 0 {
		t.Errorf("scores = %+v", f)
	}

	// Null goals map to zero, not a decode failure.
	if fixtures[1].HomeGoals != 0 || fixtures[1].AwayGoals != 0 {
		t.Errorf("null goals = %+v", fixtures[1])
	}
}

func TestFixturesByDate(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"response": []}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	fixtures, err := c.FixturesByDate(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("FixturesByDate: %v", err)
	}
	if gotQuery != "date=2026-08-31" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(fixtures) != 0 {
		t.Errorf("got %d fixtures, want 0", len(fixtures))
	}
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"rate limit"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.LiveFixtures(context.Background())

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if ue.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", ue.Status)
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": []}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Config{BaseURL: srv.URL})
	if _, err := c.LiveFixtures(ctx); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestFixtureByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "871234" {
			t.Errorf("id param = %q", r.URL.Query().Get("id"))
		}
		w.Write([]byte(fixturePayload))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	f, err := c.FixtureByID(context.Background(), 871234)
	if err != nil {
		t.Fatalf("FixtureByID: %v", err)
	}
	if f == nil || f.ID != 871234 {
		t.Fatalf("fixture = %+v, want id 871234", f)
	}
}
