package stats

import (
	"testing"

	"boardgame-tracker/internal/domain"
)

func TestHIndexFromSortedValues(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   int
	}{
		{"empty", nil, 0},
		{"single below one", []float64{0.5}, 0},
		{"single", []float64{1}, 1},
		{"tail breaks at rank four", []float64{7, 5, 5, 1}, 3},
		{"all equal", []float64{4, 4, 4, 4}, 4},
		{"long tail", []float64{10, 9, 2, 1, 1, 1}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HIndexFromSortedValues(tc.values); got != tc.want {
				t.Fatalf("h-index of %v = %d, want %d", tc.values, got, tc.want)
			}
		})
	}
}

func TestHIndexOverPlayLog(t *testing.T) {
	games := []domain.Game{
		game("g1", "Azul"), game("g2", "Brass"),
		game("g3", "Cascadia"), game("g4", "Dune"),
	}
	var plays []domain.Play
	plays = nPlays(t, plays, "g1", "2023-01", 7)
	plays = nPlays(t, plays, "g2", "2023-02", 5)
	plays = nPlays(t, plays, "g3", "2023-03", 5)
	plays = nPlays(t, plays, "g4", "2023-04", 1)

	q := HIndexQuery{Games: games, Plays: plays, Metric: MetricPlays, Year: AllTime}
	if got := HIndex(q); got != 3 {
		t.Fatalf("h-index = %d, want 3", got)
	}
}

func TestHIndexWithCutoffYear(t *testing.T) {
	games := []domain.Game{game("g1", "Azul"), game("g2", "Brass")}
	var plays []domain.Play
	plays = nPlays(t, plays, "g1", "2022-01", 2)
	plays = nPlays(t, plays, "g2", "2022-02", 1)
	plays = nPlays(t, plays, "g1", "2023-01", 3)
	plays = nPlays(t, plays, "g2", "2023-02", 3)

	q := HIndexQuery{Games: games, Plays: plays, Metric: MetricPlays, Year: 2022}
	if got := HIndex(q); got != 1 {
		t.Fatalf("h-index through 2022 = %d, want 1", got)
	}
	q.Year = 2023
	if got := HIndex(q); got != 2 {
		t.Fatalf("h-index through 2023 = %d, want 2", got)
	}
}

func TestNewHIndexGames(t *testing.T) {
	// Through 2022: values g1=3, g2=2 -> h=2, contributors {g1, g2}.
	// Through 2023: g1=5, g2=2, g3=4 -> h=2? sorted [5 4 2] -> h=2,
	// contributors {g1, g3}. g3 is the newcomer.
	games := []domain.Game{game("g1", "Azul"), game("g2", "Brass"), game("g3", "Cascadia")}
	var plays []domain.Play
	plays = nPlays(t, plays, "g1", "2022-01", 3)
	plays = nPlays(t, plays, "g2", "2022-02", 2)
	plays = nPlays(t, plays, "g1", "2023-01", 2)
	plays = nPlays(t, plays, "g3", "2023-03", 4)
	plays = nPlays(t, plays, "g3", "2024-01", 2) // later plays count toward all-time value only

	q := HIndexQuery{Games: games, Plays: plays, Metric: MetricPlays, Year: 2023}
	entries, err := NewHIndexGames(q)
	if err != nil {
		t.Fatalf("NewHIndexGames returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("newcomers = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Game.ID != "g3" {
		t.Fatalf("newcomer = %s, want g3", e.Game.ID)
	}
	if e.Value != 6 {
		t.Fatalf("all-time value = %v, want 6", e.Value)
	}
	if e.ThisYearValue != 4 {
		t.Fatalf("this-year value = %v, want 4", e.ThisYearValue)
	}
}

func TestNewHIndexGamesRequiresYear(t *testing.T) {
	q := HIndexQuery{Metric: MetricPlays, Year: AllTime}
	if _, err := NewHIndexGames(q); err == nil {
		t.Fatalf("expected error for missing year")
	}
}
