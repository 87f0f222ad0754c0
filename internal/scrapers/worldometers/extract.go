package worldometers

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"countryfeatures/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoCountryName = errors.New("country name not found")

// FieldExtractor reads one family of fields off a country page. A field whose
// label or value cannot be found is left out of the result.
type FieldExtractor interface {
	Fields() []Field
	Extract(doc *goquery.Document) map[Field]float64
}

var numberPunctuation = strings.NewReplacer(",", "", "%", "", "$", "", "€", "", "£", "")

// parseNumber strips punctuation and parses a float, non-finite values are
// rejected.
func parseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(numberPunctuation.Replace(text))
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// findByOwnString returns the first element matched by `selector` whose only
// text matches `pattern`.
func findByOwnString(doc *goquery.Document, selector string, pattern *regexp.Regexp) *goquery.Selection {
	return doc.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		text, ok := htmlutil.OwnString(s.Get(0))
		return ok && pattern.MatchString(text)
	}).First()
}

var valueClass = regexp.MustCompile(`text-2xl|font-bold`)

// LabeledValue reads a value laid out as a label div next to a bold value div
// inside the same parent.
type LabeledValue struct {
	Field Field
	Label *regexp.Regexp
}

func NewLabeledValue(field Field, label string) LabeledValue {
	return LabeledValue{
		Field: field,
		Label: regexp.MustCompile("(?i)" + label),
	}
}

func (l LabeledValue) Fields() []Field {
	return []Field{l.Field}
}

func (l LabeledValue) Extract(doc *goquery.Document) map[Field]float64 {
	out := map[Field]float64{}

	label := findByOwnString(doc, "div", l.Label)
	if label.Length() == 0 {
		return out
	}
	value := label.Parent().Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return valueClass.MatchString(s.AttrOr("class", ""))
	}).First()
	if value.Length() == 0 {
		return out
	}

	parsed, ok := parseNumber(value.Text())
	if ok {
		out[l.Field] = parsed
	}
	return out
}

// sectionParagraph returns the first paragraph following the h2 whose text
// matches `heading`.
func sectionParagraph(doc *goquery.Document, heading *regexp.Regexp) *goquery.Selection {
	header := findByOwnString(doc, "h2", heading)
	if header.Length() == 0 {
		return header
	}
	return header.NextAllFiltered("p").First()
}

var (
	urbanHeading  = regexp.MustCompile(`(?i)Urban Population`)
	urbanAbsolute = regexp.MustCompile(`(?i)\(([\d,]+)\s*people`)
)

// UrbanPopulation reads the share and the absolute number of people living in
// urban areas from the "Urban Population" section.
type UrbanPopulation struct{}

func (UrbanPopulation) Fields() []Field {
	return []Field{UrbanPopulationPercentage, UrbanPopulationAbsolute}
}

func (UrbanPopulation) Extract(doc *goquery.Document) map[Field]float64 {
	out := map[Field]float64{}

	p := sectionParagraph(doc, urbanHeading)
	if p.Length() == 0 {
		return out
	}

	strong := p.Find("strong").First()
	if strong.Length() > 0 {
		percent, ok := parseNumber(strong.Text())
		if ok {
			out[UrbanPopulationPercentage] = percent
		}
	}

	groups := urbanAbsolute.FindStringSubmatch(p.Text())
	if len(groups) == 2 {
		absolute, ok := parseNumber(groups[1])
		if ok {
			out[UrbanPopulationAbsolute] = absolute
		}
	}

	return out
}

var (
	densityHeading = regexp.MustCompile(`(?i)Population Density`)
	densityValue   = regexp.MustCompile(`(?i)([\d,.]+)\s*people per\s*Km2`)
)

// PopulationDensity reads people per square kilometer from the "Population
// Density" section.
type PopulationDensity struct{}

func (PopulationDensity) Fields() []Field {
	return []Field{PopulationDensityField}
}

func (PopulationDensity) Extract(doc *goquery.Document) map[Field]float64 {
	out := map[Field]float64{}

	p := sectionParagraph(doc, densityHeading)
	if p.Length() == 0 {
		return out
	}
	groups := densityValue.FindStringSubmatch(p.Text())
	if len(groups) != 2 {
		return out
	}
	density, ok := parseNumber(groups[1])
	if ok {
		out[PopulationDensityField] = density
	}
	return out
}

func DefaultExtractors() []FieldExtractor {
	return []FieldExtractor{
		NewLabeledValue(LifeExpectancyBoth, `life expectancy at birth, both sexes combined`),
		NewLabeledValue(LifeExpectancyFemale, `life expectancy at birth, females`),
		NewLabeledValue(LifeExpectancyMale, `life expectancy at birth, males`),
		UrbanPopulation{},
		PopulationDensity{},
	}
}

const titleSuffix = "demographics"

// ExtractCountryName reads the page title, "Japan Demographics" -> "Japan".
func ExtractCountryName(doc *goquery.Document) (string, error) {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if strings.HasSuffix(strings.ToLower(title), titleSuffix) {
		idx := strings.LastIndex(title, " ")
		if idx >= 0 {
			title = strings.TrimSpace(title[:idx])
		}
	}
	if title == "" {
		return "", ErrNoCountryName
	}
	return title, nil
}

// ExtractPage runs every extractor over a country page, only the country name
// is required.
func ExtractPage(doc *goquery.Document, extractors []FieldExtractor) (Demographics, error) {
	name, err := ExtractCountryName(doc)
	if err != nil {
		return Demographics{}, err
	}

	values := map[Field]float64{}
	for _, e := range extractors {
		for field, value := range e.Extract(doc) {
			values[field] = value
		}
	}
	return Demographics{Country: name, Values: values}, nil
}
