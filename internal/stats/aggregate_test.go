package stats

import (
	"testing"
	"time"

	"boardgame-tracker/internal/domain"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func play(t *testing.T, gameID, date string, minutes int) domain.Play {
	t.Helper()
	return domain.Play{GameID: gameID, Date: day(t, date), DurationMin: minutes}
}

func TestAggregateCountsPlaysMinutesAndDays(t *testing.T) {
	plays := []domain.Play{
		play(t, "g1", "2023-03-01", 60),
		play(t, "g1", "2023-03-01", 45), // same day, second play
		play(t, "g1", "2023-04-10", 0),  // missing duration
		play(t, "g2", "2023-05-05", 30),
	}

	snaps := Aggregate(plays, AllTime)

	g1, ok := snaps["g1"]
	if !ok {
		t.Fatalf("g1 snapshot missing")
	}
	if g1.PlayCount != 3 {
		t.Fatalf("g1 play count = %d, want 3", g1.PlayCount)
	}
	if g1.TotalMinutes != 105 {
		t.Fatalf("g1 total minutes = %d, want 105", g1.TotalMinutes)
	}
	if g1.UniqueDays != 2 {
		t.Fatalf("g1 unique days = %d, want 2", g1.UniqueDays)
	}
	if g2 := snaps["g2"]; g2.PlayCount != 1 {
		t.Fatalf("g2 play count = %d, want 1", g2.PlayCount)
	}
}

func TestAggregateRespectsCutoffYear(t *testing.T) {
	plays := []domain.Play{
		play(t, "g1", "2022-06-01", 60),
		play(t, "g1", "2023-06-01", 60),
		play(t, "g1", "2024-01-01", 60),
	}

	snaps := Aggregate(plays, 2023)
	if got := snaps["g1"].PlayCount; got != 2 {
		t.Fatalf("play count through 2023 = %d, want 2", got)
	}

	snaps = Aggregate(plays, AllTime)
	if got := snaps["g1"].PlayCount; got != 3 {
		t.Fatalf("all-time play count = %d, want 3", got)
	}
}

func TestAggregateNeverPlayedHasNoEntry(t *testing.T) {
	plays := []domain.Play{play(t, "g1", "2023-01-01", 30)}

	snaps := Aggregate(plays, AllTime)
	if _, ok := snaps["g2"]; ok {
		t.Fatalf("unplayed game must not have a snapshot")
	}
}

func TestMetricSnapshotValue(t *testing.T) {
	snap := MetricSnapshot{PlayCount: 4, TotalMinutes: 90, UniqueDays: 3}

	if got := snap.Value(MetricPlays); got != 4 {
		t.Fatalf("plays value = %v, want 4", got)
	}
	if got := snap.Value(MetricSessions); got != 3 {
		t.Fatalf("sessions value = %v, want 3", got)
	}
	if got := snap.Value(MetricHours); got != 1.5 {
		t.Fatalf("hours value = %v, want 1.5", got)
	}
}
