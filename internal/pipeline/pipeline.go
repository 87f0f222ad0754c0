package pipeline

import (
	"context"
	"fmt"

	"countryfeatures/internal/cleaner"
	"countryfeatures/internal/components/assert"
	"countryfeatures/internal/components/chrono"
	"countryfeatures/internal/components/telemetry"
	"countryfeatures/internal/config"
	"countryfeatures/internal/dataset"
	"countryfeatures/internal/integrate"
	"countryfeatures/internal/scrapers/worldometers"
	"countryfeatures/internal/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_pipeline_demographics_collision = "pipeline.demographics-collision"
	report_pipeline_stage                  = "pipeline.stage"
)

var tracer = otel.Tracer("countryfeatures.internal.pipeline")

// RunStore persists the result of a complete run.
type RunStore interface {
	SaveRun(ctx context.Context, in store.RunInput) (store.Run, error)
}

// Pipeline runs the stages, each stage takes the tables it needs explicitly
// and writes its artifacts to the output directory.
type Pipeline struct {
	cfg       config.Config
	artifacts Artifacts
	time      chrono.API
	tel       telemetry.API
}

func New(cfg config.Config, time chrono.API, tel telemetry.API) Pipeline {
	assert.NotNil(time)
	assert.NotNil(tel)

	return Pipeline{
		cfg:       cfg,
		artifacts: Artifacts{Dir: cfg.OutputDir},
		time:      time,
		tel:       telemetry.NewScopedAPI("pipeline", tel),
	}
}

func (p Pipeline) Artifacts() Artifacts {
	return p.artifacts
}

type Loaded struct {
	GDP        dataset.Raw
	Population dataset.Raw
}

// Load reads both input tables and writes their samples and summaries.
func (p Pipeline) Load(ctx context.Context) (Loaded, error) {
	_, span := tracer.Start(ctx, "Load")
	defer span.End()

	err := p.artifacts.ensure()
	if err != nil {
		return Loaded{}, err
	}

	gdp, err := p.loadInput(p.cfg.Inputs.GDP, cleaner.GDP.Column, GDPBeforeSort, GDPAfterSort, GDPDescribe)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load gdp")
		return Loaded{}, fmt.Errorf("load gdp: %w", err)
	}
	population, err := p.loadInput(p.cfg.Inputs.Population, cleaner.Population.Column, PopBeforeSort, PopAfterSort, PopDescribe)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load population")
		return Loaded{}, fmt.Errorf("load population: %w", err)
	}

	p.tel.ReportDebug(report_pipeline_stage, "load", gdp.Len(), population.Len())
	return Loaded{GDP: gdp, Population: population}, nil
}

func (p Pipeline) loadInput(path, column, beforeSort, afterSort, describe string) (dataset.Raw, error) {
	raw, err := dataset.ReadRaw(path)
	if err != nil {
		return dataset.Raw{}, err
	}
	err = raw.RequireColumns(dataset.KeyColumn, column)
	if err != nil {
		return dataset.Raw{}, fmt.Errorf("%s: %w", path, err)
	}

	err = dataset.WriteRaw(p.artifacts.Path(beforeSort), raw.Head(loadSampleSize))
	if err != nil {
		return dataset.Raw{}, err
	}
	sorted, err := raw.SortedBy(dataset.KeyColumn)
	if err != nil {
		return dataset.Raw{}, err
	}
	err = dataset.WriteRaw(p.artifacts.Path(afterSort), sorted.Head(loadSampleSize))
	if err != nil {
		return dataset.Raw{}, err
	}

	idx, _ := raw.ColumnIndex(column)
	values := make([]float64, raw.Len())
	for i, row := range raw.Rows {
		values[i] = dataset.ParseValue(row[idx])
	}
	err = dataset.WriteDescribeFile(p.artifacts.Path(describe), column, values)
	if err != nil {
		p.tel.ReportWarning(report_pipeline_stage, "describe", path, err)
	}

	return raw, nil
}

type Cleaned struct {
	GDP        cleaner.Result
	Population cleaner.Result
}

// Mismatches lists the name corrections of GDP then population.
func (c Cleaned) Mismatches() []cleaner.Mismatch {
	out := append([]cleaner.Mismatch{}, c.GDP.Mismatches...)
	return append(out, c.Population.Mismatches...)
}

// Clean cleans both tables and writes the cleaned tables and their audits.
func (p Pipeline) Clean(ctx context.Context, loaded Loaded) (Cleaned, error) {
	_, span := tracer.Start(ctx, "Clean")
	defer span.End()

	err := p.artifacts.ensure()
	if err != nil {
		return Cleaned{}, err
	}

	gdp, err := p.cleanTable(loaded.GDP, cleaner.GDP, DroppedGDP, GDPOutliers, CleanedGDP)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clean gdp")
		return Cleaned{}, fmt.Errorf("clean gdp: %w", err)
	}
	population, err := p.cleanTable(loaded.Population, cleaner.Population, DroppedPop, PopOutliers, CleanedPop)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clean population")
		return Cleaned{}, fmt.Errorf("clean population: %w", err)
	}

	cleaned := Cleaned{GDP: gdp, Population: population}
	err = cleaner.WriteMismatches(p.artifacts.Path(NameMismatches), cleaned.Mismatches())
	if err != nil {
		return Cleaned{}, err
	}

	span.SetAttributes(
		attribute.Int("gdp", gdp.Table.Len()),
		attribute.Int("population", population.Table.Len()),
	)
	return cleaned, nil
}

func (p Pipeline) cleanTable(raw dataset.Raw, opts cleaner.Options, dropped, outliers, cleaned string) (cleaner.Result, error) {
	res, err := cleaner.Clean(raw, opts, p.tel)
	if err != nil {
		return cleaner.Result{}, err
	}

	err = dataset.WriteRaw(p.artifacts.Path(dropped), res.Dropped)
	if err != nil {
		return cleaner.Result{}, err
	}
	err = cleaner.WriteOutliers(p.artifacts.Path(outliers), opts, res.Outliers)
	if err != nil {
		return cleaner.Result{}, err
	}
	err = dataset.WriteTable(p.artifacts.Path(cleaned), res.Table)
	if err != nil {
		return cleaner.Result{}, err
	}
	return res, nil
}

// Crawl scrapes demographics and writes the demographics table with its
// samples.
func (p Pipeline) Crawl(ctx context.Context) (*dataset.Table, error) {
	ctx, span := tracer.Start(ctx, "Crawl")
	defer span.End()

	err := p.artifacts.ensure()
	if err != nil {
		return nil, err
	}

	client := worldometers.NewClient(p.cfg.Crawler.ClientOptions(), p.tel)
	records, err := client.Crawl(ctx, p.cfg.Crawler.CrawlOptions())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "crawl")
		return nil, fmt.Errorf("crawl: %w", err)
	}

	table, collisions := worldometers.ToTable(records)
	for _, name := range collisions {
		p.tel.ReportWarning(report_pipeline_demographics_collision, name)
	}

	err = dataset.WriteTable(p.artifacts.Path(Demographics), table)
	if err != nil {
		return nil, err
	}
	err = dataset.WriteTable(p.artifacts.Path(DemographicsBeforeSort), table.Head(demographicSampleSize))
	if err != nil {
		return nil, err
	}
	err = dataset.WriteTable(p.artifacts.Path(DemographicsAfterSort), table.Sorted().Head(demographicSampleSize))
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("countries", table.Len()))
	return table, nil
}

// ReadTable reads a table a previous stage left in the output directory.
func (p Pipeline) ReadTable(name string) (*dataset.Table, error) {
	return dataset.ReadTable(p.artifacts.Path(name))
}

// Integrate merges the three tables into the feature matrix and writes every
// integration artifact.
func (p Pipeline) Integrate(ctx context.Context, gdp, population, demographics *dataset.Table) (integrate.Result, error) {
	_, span := tracer.Start(ctx, "Integrate")
	defer span.End()

	err := p.artifacts.ensure()
	if err != nil {
		return integrate.Result{}, err
	}

	res, err := integrate.Integrate(gdp, population, demographics, integrate.Options{
		SuggestionThreshold: p.cfg.SuggestionThreshold,
	}, p.tel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "integrate")
		return integrate.Result{}, fmt.Errorf("integrate: %w", err)
	}

	writes := []func() error{
		func() error { return dataset.WriteTable(p.artifacts.Path(Combined), res.Combined) },
		func() error { return integrate.WriteLostCountries(p.artifacts.Path(LostCountries), res.Lost) },
		func() error {
			return integrate.WriteSuggestions(p.artifacts.Path(LostCountrySuggestions), res.Suggestions)
		},
		func() error { return dataset.WriteTable(p.artifacts.Path(MergedFinal), res.Merged) },
		func() error { return res.Features.WriteNPYFile(p.artifacts.Path(FeatureMatrix)) },
		func() error { return res.Features.WriteCountries(p.artifacts.Path(FeatureCountries)) },
	}
	for _, write := range writes {
		err := write()
		if err != nil {
			return integrate.Result{}, err
		}
	}

	span.SetAttributes(
		attribute.Int("countries", res.Features.Rows()),
		attribute.Int("lost", len(res.Lost)),
	)
	return res, nil
}

type RunOptions struct {
	// SkipCrawl reuses the demographics table of a previous crawl.
	SkipCrawl bool
}

type RunResult struct {
	Cleaned    Cleaned
	Integrated integrate.Result
	Run        store.Run
}

// Run executes every stage in order and persists the outcome.
func (p Pipeline) Run(ctx context.Context, opts RunOptions, runs RunStore) (RunResult, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	started := p.time.Now()

	loaded, err := p.Load(ctx)
	if err != nil {
		return RunResult{}, err
	}
	cleaned, err := p.Clean(ctx, loaded)
	if err != nil {
		return RunResult{}, err
	}

	var demographics *dataset.Table
	if opts.SkipCrawl {
		demographics, err = p.ReadTable(Demographics)
		if err != nil {
			return RunResult{}, fmt.Errorf("read previous crawl: %w", err)
		}
	} else {
		demographics, err = p.Crawl(ctx)
		if err != nil {
			return RunResult{}, err
		}
	}

	integrated, err := p.Integrate(ctx, cleaned.GDP.Table, cleaned.Population.Table, demographics)
	if err != nil {
		return RunResult{}, err
	}

	res := RunResult{Cleaned: cleaned, Integrated: integrated}
	if runs == nil {
		return res, nil
	}

	res.Run, err = runs.SaveRun(ctx, store.RunInput{
		StartedAt:   started,
		Features:    integrated.Features,
		Lost:        integrated.Lost,
		Suggestions: integrated.Suggestions,
		Corrections: cleaned.Mismatches(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save run")
		return RunResult{}, fmt.Errorf("save run: %w", err)
	}
	span.SetAttributes(attribute.String("run", res.Run.ID))
	return res, nil
}
