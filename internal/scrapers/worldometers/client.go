package worldometers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"countryfeatures/internal/components/assert"
	"countryfeatures/internal/components/telemetry"
	"countryfeatures/pkg/htmlutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_fetch         = "client.fetch"
	report_client_country_links = "client.country-links"
	report_client_country_page  = "client.country-page"
)

const (
	DefaultIndexUrl   = "https://www.worldometers.info/demographics/"
	DefaultSelector   = "a[data-country][href]"
	DefaultPathPrefix = "/demographics/"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultTimeout    = time.Second * 30
)

var (
	ErrBadStatus      = errors.New("unexpected status")
	ErrNoCountryLinks = errors.New("no country links found")
)

type ClientOptions struct {
	UserAgent        string
	Timeout          time.Duration
	CloudflareBypass bool
	// Extractors default to DefaultExtractors.
	Extractors []FieldExtractor
}

type Client struct {
	http       *resty.Client
	extractors []FieldExtractor
	tel        telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("worldometers", tel)

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Extractors == nil {
		opts.Extractors = DefaultExtractors()
	}

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		http:       httpClient,
		extractors: opts.Extractors,
		tel:        tel,
	}
}

// fetch gets and parses a page, any status outside 2xx is an error. The
// returned url is the one the page was finally served from.
func (c *Client) fetch(ctx context.Context, endpoint string) (*goquery.Document, *url.URL, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, fmt.Errorf("fetch: %w", err), endpoint)
		return nil, nil, err
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("%w: %s", ErrBadStatus, res.Status())
		c.tel.ReportBroken(report_client_fetch, err, endpoint)
		return nil, nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, fmt.Errorf("parse: %w", err), endpoint)
		return nil, nil, err
	}

	location, err := url.Parse(endpoint)
	if err != nil {
		return nil, nil, err
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		location = res.RawResponse.Request.URL
	}
	return doc, location, nil
}

type LinkOptions struct {
	Selector   string
	PathPrefix string
}

// CountryLinks lists the country pages linked from the index page,
// deduplicated in the order they were first seen.
func (c *Client) CountryLinks(ctx context.Context, indexUrl string, opts LinkOptions) ([]*url.URL, error) {
	if opts.Selector == "" {
		opts.Selector = DefaultSelector
	}
	if opts.PathPrefix == "" {
		opts.PathPrefix = DefaultPathPrefix
	}

	doc, location, err := c.fetch(ctx, indexUrl)
	if err != nil {
		return nil, fmt.Errorf("country links: %w", err)
	}

	anchors := htmlutil.GetAnchors(ctx, location, doc.Find(opts.Selector))

	seen := make(map[string]struct{}, len(anchors))
	var links []*url.URL
	for _, a := range anchors {
		if !strings.HasPrefix(a.Url.Path, opts.PathPrefix) || a.Url.Path == opts.PathPrefix {
			continue
		}
		a.Url.Fragment = ""
		key := a.Url.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		links = append(links, a.Url)
	}

	if len(links) == 0 {
		c.tel.ReportBroken(report_client_country_links, ErrNoCountryLinks, indexUrl, opts.Selector)
		return nil, ErrNoCountryLinks
	}
	c.tel.ReportCount(report_client_country_links, int64(len(links)))
	return links, nil
}

// CountryPage fetches a single country page and extracts its fields.
func (c *Client) CountryPage(ctx context.Context, link *url.URL) (Demographics, error) {
	assert.NotNil(link)

	endpoint := link.String()
	c.tel.ReportDebug(report_client_country_page, endpoint)

	doc, _, err := c.fetch(ctx, endpoint)
	if err != nil {
		return Demographics{}, err
	}

	record, err := ExtractPage(doc, c.extractors)
	if err != nil {
		c.tel.ReportBroken(report_client_country_page, err, endpoint)
		return Demographics{}, err
	}
	record.Url = endpoint
	return record, nil
}
