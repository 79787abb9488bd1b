package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardgame-tracker/internal/api"
	"boardgame-tracker/internal/config"
	"boardgame-tracker/internal/domain"
	"boardgame-tracker/internal/service"

	"github.com/rs/zerolog"
)

type memGameStore struct {
	games []domain.Game
}

func (m *memGameStore) ListWithCopies(ctx context.Context) ([]domain.Game, error) {
	return m.games, nil
}

func (m *memGameStore) UpsertBatch(ctx context.Context, games []domain.Game) error {
	m.games = games
	return nil
}

type memPlayStore struct {
	plays []domain.Play
}

func (m *memPlayStore) List(ctx context.Context) ([]domain.Play, error) {
	return m.plays, nil
}

func (m *memPlayStore) UpsertBatch(ctx context.Context, plays []domain.Play) error {
	m.plays = plays
	return nil
}

func testServer(t *testing.T, games []domain.Game, plays []domain.Play) *httptest.Server {
	t.Helper()
	logger := zerolog.Nop()
	gameStore := &memGameStore{games: games}
	playStore := &memPlayStore{plays: plays}
	statsSvc := service.NewStatsService(gameStore, playStore, logger)
	syncSvc := service.NewSyncService(api.NewBGGClient(), gameStore, playStore, logger)
	srv := New(statsSvc, syncSvc, gameStore, playStore, &config.Config{}, logger)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func seedPlays(t *testing.T, gameID string, dates ...string) []domain.Play {
	t.Helper()
	var plays []domain.Play
	for _, d := range dates {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			t.Fatalf("bad date %q: %v", d, err)
		}
		plays = append(plays, domain.Play{GameID: gameID, Date: date, DurationMin: 45})
	}
	return plays
}

func TestMilestonesEndpoint(t *testing.T) {
	games := []domain.Game{{ID: "g1", Name: "Azul", IsBaseGame: true}}
	plays := seedPlays(t, "g1",
		"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05", "2023-01-06")
	ts := testServer(t, games, plays)

	resp, err := http.Get(ts.URL + "/api/v1/stats/milestones?year=2023&metric=plays")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report service.MilestoneReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if report.Year != 2023 || report.Metric != "plays" {
		t.Fatalf("report header = %+v", report)
	}
	if len(report.Tiers) != 4 || report.Tiers[0].Count != 1 {
		t.Fatalf("tiers = %+v, want fives count 1", report.Tiers)
	}
}

func TestMilestonesEndpointRejectsBadParams(t *testing.T) {
	ts := testServer(t, nil, nil)

	for _, path := range []string{
		"/api/v1/stats/milestones?year=abc",
		"/api/v1/stats/milestones?metric=kilometers",
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestHIndexEndpoint(t *testing.T) {
	games := []domain.Game{
		{ID: "g1", Name: "Azul", IsBaseGame: true},
		{ID: "g2", Name: "Brass", IsBaseGame: true},
	}
	plays := append(
		seedPlays(t, "g1", "2023-01-01", "2023-01-02", "2023-01-03"),
		seedPlays(t, "g2", "2023-02-01", "2023-02-02")...)
	ts := testServer(t, games, plays)

	resp, err := http.Get(ts.URL + "/api/v1/stats/h-index")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report service.HIndexReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(report.Metrics) != 3 {
		t.Fatalf("metrics = %d, want 3", len(report.Metrics))
	}
	for _, m := range report.Metrics {
		if m.Metric == "plays" && m.HIndex != 2 {
			t.Fatalf("plays h-index = %d, want 2", m.HIndex)
		}
	}
}

func TestSyncEndpointRequiresUsername(t *testing.T) {
	ts := testServer(t, nil, nil)

	resp, err := http.Post(ts.URL+"/api/v1/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
