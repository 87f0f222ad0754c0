package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"countryfeatures/internal/cleaner"
	"countryfeatures/internal/components/assert"
	"countryfeatures/internal/components/chrono"
	"countryfeatures/internal/components/telemetry"
	"countryfeatures/internal/countryname"
	"countryfeatures/internal/dataset"
	"countryfeatures/internal/integrate"
	"countryfeatures/pkg/migrations"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed schema.sql
var Schema string

const (
	report_db_query = "db.query"
	report_save_run = "store.save-run"
)

var ErrNoRuns = errors.New("no pipeline run recorded")

var tracer = otel.Tracer("countryfeatures.internal.store")

// Store keeps a snapshot of every pipeline run.
type Store struct {
	db   *sql.DB
	time chrono.API
	tel  telemetry.API
}

func New(db *sql.DB, time chrono.API, tel telemetry.API) Store {
	assert.NotNil(db)
	assert.NotNil(time)
	assert.NotNil(tel)

	return Store{
		db:   db,
		time: time,
		tel:  telemetry.NewScopedAPI("store", tel),
	}
}

// Open opens and migrates the database at `dsn`, see migrations.OpenDB.
func Open(ctx context.Context, dsn string, time chrono.API, tel telemetry.API) (Store, error) {
	db, err := migrations.OpenAndMigrateDB(ctx, Schema, dsn)
	if err != nil {
		return Store{}, err
	}
	return New(db, time, tel), nil
}

func (s Store) Close() error {
	return s.db.Close()
}

type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Countries  int
	Lost       int
}

// RunInput is everything a run produced that is worth keeping.
type RunInput struct {
	StartedAt   time.Time
	Features    integrate.FeatureMatrix
	Lost        []string
	Suggestions []countryname.Suggestion
	Corrections []cleaner.Mismatch
}

// SaveRun writes a run with its features, lost countries and name
// corrections in a single transaction.
func (s Store) SaveRun(ctx context.Context, in RunInput) (Run, error) {
	ctx, span := tracer.Start(ctx, "SaveRun")
	defer span.End()

	run := Run{
		ID:         uuid.NewString(),
		StartedAt:  in.StartedAt,
		FinishedAt: s.time.Now(),
		Countries:  in.Features.Rows(),
		Lost:       len(in.Lost),
	}
	span.SetAttributes(attribute.String("run", run.ID))

	err := s.saveRun(ctx, run, in)
	if err != nil {
		s.tel.ReportBroken(report_save_run, err, run.ID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Run{}, err
	}
	return run, nil
}

func (s Store) saveRun(ctx context.Context, run Run, in RunInput) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("make tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`insert into pipeline_run(id, started_at, finished_at, countries, lost) values (?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Unix(),
		run.FinishedAt.Unix(),
		run.Countries,
		run.Lost,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, country := range in.Features.Countries {
		row := in.Features.Row(i)
		for j, feature := range in.Features.Columns {
			_, err := tx.ExecContext(
				ctx,
				`insert into country_feature(run_id, country, feature, position, value) values (?, ?, ?, ?, ?)`,
				run.ID, country, feature, j, row[j],
			)
			if err != nil {
				return fmt.Errorf("insert feature: %w", err)
			}
		}
	}

	suggestions := make(map[string]countryname.Suggestion, len(in.Suggestions))
	for _, suggestion := range in.Suggestions {
		suggestions[suggestion.Name] = suggestion
	}
	for _, country := range in.Lost {
		var candidate sql.NullString
		var similarity sql.NullFloat64
		if suggestion, ok := suggestions[country]; ok {
			candidate = sql.NullString{String: suggestion.Candidate, Valid: true}
			similarity = sql.NullFloat64{Float64: suggestion.Similarity, Valid: true}
		}
		_, err := tx.ExecContext(
			ctx,
			`insert into lost_country(run_id, country, suggestion, similarity) values (?, ?, ?, ?)`,
			run.ID, country, candidate, similarity,
		)
		if err != nil {
			return fmt.Errorf("insert lost country: %w", err)
		}
	}

	for _, correction := range in.Corrections {
		_, err := tx.ExecContext(
			ctx,
			`insert into name_correction(run_id, source, original, corrected) values (?, ?, ?, ?)`,
			run.ID, correction.Source, correction.Original, correction.Corrected,
		)
		if err != nil {
			return fmt.Errorf("insert name correction: %w", err)
		}
	}

	return tx.Commit()
}

// LatestRun returns the most recently finished run, ErrNoRuns if there is
// none.
func (s Store) LatestRun(ctx context.Context) (Run, error) {
	var run Run
	var startedAt, finishedAt int64
	err := s.db.QueryRowContext(
		ctx,
		`select id, started_at, finished_at, countries, lost from pipeline_run
		order by finished_at desc, rowid desc limit 1`,
	).Scan(&run.ID, &startedAt, &finishedAt, &run.Countries, &run.Lost)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "LatestRun")
		return Run{}, err
	}
	run.StartedAt = time.Unix(startedAt, 0).UTC()
	run.FinishedAt = time.Unix(finishedAt, 0).UTC()
	return run, nil
}

// Features rebuilds the feature table of a run, rows sorted by country.
func (s Store) Features(ctx context.Context, runID string) (*dataset.Table, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select country, feature, value from country_feature
		where run_id = ? order by country asc, position asc`,
		runID,
	)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "Features", runID)
		return nil, err
	}
	defer rows.Close()

	var columns []string
	var countries []string
	values := map[string][]float64{}
	for rows.Next() {
		var country, feature string
		var value float64
		err := rows.Scan(&country, &feature, &value)
		if err != nil {
			return nil, err
		}
		if _, ok := values[country]; !ok {
			countries = append(countries, country)
		}
		if len(countries) == 1 {
			columns = append(columns, feature)
		}
		values[country] = append(values[country], value)
	}
	err = rows.Err()
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "Features", runID)
		return nil, err
	}

	table := dataset.NewTable(columns...)
	for _, country := range countries {
		err := table.Insert(country, values[country])
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
	}
	return table, nil
}

type LostCountry struct {
	Country    string
	Suggestion string
	Similarity float64
}

func (s Store) LostCountries(ctx context.Context, runID string) ([]LostCountry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select country, suggestion, similarity from lost_country
		where run_id = ? order by country asc`,
		runID,
	)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "LostCountries", runID)
		return nil, err
	}
	defer rows.Close()

	var out []LostCountry
	for rows.Next() {
		var lost LostCountry
		var suggestion sql.NullString
		var similarity sql.NullFloat64
		err := rows.Scan(&lost.Country, &suggestion, &similarity)
		if err != nil {
			return nil, err
		}
		lost.Suggestion = suggestion.String
		lost.Similarity = similarity.Float64
		out = append(out, lost)
	}
	return out, rows.Err()
}

func (s Store) NameCorrections(ctx context.Context, runID string) ([]cleaner.Mismatch, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select source, original, corrected from name_correction
		where run_id = ? order by rowid asc`,
		runID,
	)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "NameCorrections", runID)
		return nil, err
	}
	defer rows.Close()

	var out []cleaner.Mismatch
	for rows.Next() {
		var m cleaner.Mismatch
		err := rows.Scan(&m.Source, &m.Original, &m.Corrected)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
