package store

import (
	"context"
	"testing"
	"time"

	"countryfeatures/internal/cleaner"
	"countryfeatures/internal/components/chrono"
	"countryfeatures/internal/components/telemetry"
	"countryfeatures/internal/countryname"
	"countryfeatures/internal/integrate"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func openTestStore(t *testing.T, now time.Time) Store {
	t.Helper()

	s, err := Open(context.Background(), ":memory:", chrono.FixedImpl{Time: now}, telemetry.NewRecorder())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testInput(started time.Time) RunInput {
	return RunInput{
		StartedAt: started,
		Features: integrate.FeatureMatrix{
			Countries: []string{"Chad", "Japan"},
			Columns:   integrate.FeatureColumns,
			Data: mat.NewDense(2, 3, []float64{
				-0.7, -0.7, -0.7,
				0.7, 0.7, 0.7,
			}),
		},
		Lost: []string{"Fiji", "The Gambia"},
		Suggestions: []countryname.Suggestion{
			{Name: "The Gambia", Candidate: "Gambia", Similarity: 0.9},
		},
		Corrections: []cleaner.Mismatch{
			{Source: "gdp", Original: "USA", Corrected: "Usa"},
			{Source: "population", Original: "the Chad", Corrected: "Chad"},
		},
	}
}

func TestLatestRunEmpty(t *testing.T) {
	s := openTestStore(t, time.Unix(1000, 0))
	_, err := s.LatestRun(context.Background())
	require.ErrorIs(t, err, ErrNoRuns)
}

func TestSaveRun(t *testing.T) {
	ctx := context.Background()
	started := time.Unix(1000, 0).UTC()
	finished := time.Unix(2000, 0).UTC()
	s := openTestStore(t, finished)

	saved, err := s.SaveRun(ctx, testInput(started))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	expected := Run{
		ID:         saved.ID,
		StartedAt:  started,
		FinishedAt: finished,
		Countries:  2,
		Lost:       2,
	}
	if diff := cmp.Diff(expected, latest); diff != "" {
		t.Fatal(diff)
	}

	features, err := s.Features(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Chad", "Japan"}, features.Keys())
	require.Equal(t, integrate.FeatureColumns, features.Columns())
	require.Equal(t, 0.7, features.Value("Japan", integrate.ColumnLogPopulation))

	lost, err := s.LostCountries(ctx, saved.ID)
	require.NoError(t, err)
	expectedLost := []LostCountry{
		{Country: "Fiji"},
		{Country: "The Gambia", Suggestion: "Gambia", Similarity: 0.9},
	}
	if diff := cmp.Diff(expectedLost, lost); diff != "" {
		t.Fatal(diff)
	}

	corrections, err := s.NameCorrections(ctx, saved.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(testInput(started).Corrections, corrections); diff != "" {
		t.Fatal(diff)
	}
}

func TestLatestRunPicksNewest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, time.Unix(2000, 0))

	_, err := s.SaveRun(ctx, testInput(time.Unix(1000, 0)))
	require.NoError(t, err)

	s.time = chrono.FixedImpl{Time: time.Unix(3000, 0)}
	second, err := s.SaveRun(ctx, RunInput{StartedAt: time.Unix(2500, 0)})
	require.NoError(t, err)

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, latest.ID)
	require.Equal(t, 0, latest.Countries)

	features, err := s.Features(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, 0, features.Len())
}
