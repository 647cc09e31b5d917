package subscription

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// Feed is a single subscribed RSS/Atom feed.
type Feed struct {
	Title    string
	URL      string
	SiteURL  string
	Category string
}

// OPML XML structures. Category folders are outlines without an xmlUrl
// whose children are the feeds they contain.

type opmlDoc struct {
	XMLName xml.Name `xml:"opml"`
	Body    opmlBody `xml:"body"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr"`
	XMLURL   string        `xml:"xmlUrl,attr"`
	HTMLURL  string        `xml:"htmlUrl,attr"`
	Outlines []opmlOutline `xml:"outline"`
}

// Load parses an OPML subscription file and returns all feeds in document
// order. Feeds nested under a folder outline inherit the folder name as
// their category; top-level feeds fall into "Uncategorized".
func Load(path string) ([]Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("subscription: failed to read %s: %w", path, err)
	}

	var doc opmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("subscription: failed to parse %s: %w", path, err)
	}

	var feeds []Feed
	collect(doc.Body.Outlines, "", &feeds)
	return feeds, nil
}

func collect(outlines []opmlOutline, category string, feeds *[]Feed) {
	for _, o := range outlines {
		if o.XMLURL != "" {
			*feeds = append(*feeds, Feed{
				Title:    outlineTitle(o),
				URL:      o.XMLURL,
				SiteURL:  o.HTMLURL,
				Category: categoryOrDefault(category),
			})
			continue
		}
		collect(o.Outlines, outlineTitle(o), feeds)
	}
}

func outlineTitle(o opmlOutline) string {
	if t := strings.TrimSpace(o.Text); t != "" {
		return t
	}
	if t := strings.TrimSpace(o.Title); t != "" {
		return t
	}
	return "Unknown"
}

func categoryOrDefault(category string) string {
	if category == "" || category == "Unknown" {
		return "Uncategorized"
	}
	return category
}

// Categories returns the unique feed categories in first-seen order.
func Categories(feeds []Feed) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, f := range feeds {
		if !seen[f.Category] {
			seen[f.Category] = true
			categories = append(categories, f.Category)
		}
	}
	return categories
}
