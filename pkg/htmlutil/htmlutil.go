package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("countryfeatures.pkg.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// OwnString returns the text of a node if it holds exactly one piece of text,
// either directly or through a chain of single-child elements. Any node with
// more than one child has no own string and yields ("", false).
func OwnString(node *html.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	if node.Type == html.TextNode {
		return node.Data, true
	}
	child := node.FirstChild
	if child == nil || child.NextSibling != nil {
		return "", false
	}
	return OwnString(child)
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText strips non-printable characters, trims the ends and collapses
// runs of whitespace into a single space.
func CleanText(text string) string {
	text = removeNonPrintable(text)
	text = strings.Trim(text, " \t\n")
	return innerWhitespace.ReplaceAllString(text, " ")
}

type Anchor struct {
	Name string
	Url  *url.URL
}

// GetAnchors returns every anchor in the selection with an href, resolved
// against `base`. Anchors with unparseable hrefs are skipped.
func GetAnchors(ctx context.Context, base *url.URL, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		if href == "" {
			continue
		}

		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		name := CleanText(GetText(n))
		anchors = append(anchors, Anchor{
			Name: name,
			Url:  link,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", link.String()),
		))
	}

	return anchors
}
