package worldometers

import (
	"context"
	"errors"
	"math"

	"countryfeatures/internal/countryname"
	"countryfeatures/internal/dataset"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_crawl_skipped = "crawl.skipped"
	report_crawl_records = "crawl.records"
)

var ErrNoRecords = errors.New("no country page could be crawled")

var tracer = otel.Tracer("countryfeatures.internal.scrapers.worldometers")

type CrawlOptions struct {
	IndexUrl string
	Links    LinkOptions
}

// Crawl visits every country page linked from the index one at a time. A
// page that fails is reported and skipped, the crawl only fails when the
// index is unusable or no page succeeds. Records are returned in visit order.
func (c *Client) Crawl(ctx context.Context, opts CrawlOptions) ([]Demographics, error) {
	if opts.IndexUrl == "" {
		opts.IndexUrl = DefaultIndexUrl
	}

	ctx, span := tracer.Start(ctx, "Crawl")
	defer span.End()

	links, err := c.CountryLinks(ctx, opts.IndexUrl, opts.Links)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "country links")
		return nil, err
	}
	span.SetAttributes(attribute.Int("links", len(links)))

	var records []Demographics
	for _, link := range links {
		err := ctx.Err()
		if err != nil {
			return nil, err
		}

		record, err := c.CountryPage(ctx, link)
		if err != nil {
			c.tel.ReportWarning(report_crawl_skipped, link.String(), err)
			span.AddEvent("skipped", trace.WithAttributes(attribute.String("url", link.String())))
			continue
		}
		records = append(records, record)
	}

	c.tel.ReportCount(report_crawl_records, int64(len(records)))
	if len(records) == 0 {
		span.SetStatus(codes.Error, "no records")
		return nil, ErrNoRecords
	}
	return records, nil
}

// Columns returns the demographics table columns.
func Columns() []string {
	columns := make([]string, len(Fields))
	for i, f := range Fields {
		columns[i] = string(f)
	}
	return columns
}

// ToTable keys the records by normalized country name, absent fields are
// missing values. The first record of a country wins, the names of the
// records that were dropped because of that are returned.
func ToTable(records []Demographics) (*dataset.Table, []string) {
	table := dataset.NewTable(Columns()...)

	var collisions []string
	for _, r := range records {
		values := make([]float64, len(Fields))
		for i, f := range Fields {
			v, ok := r.Values[f]
			if !ok {
				v = math.NaN()
			}
			values[i] = v
		}

		err := table.Insert(countryname.Normalize(r.Country), values)
		if err != nil {
			collisions = append(collisions, r.Country)
		}
	}
	return table, collisions
}
