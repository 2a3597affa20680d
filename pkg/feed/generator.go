package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/feedgate/pkg/domain"
)

// Generator renders analysis results as RSS and feed subscriptions as OPML
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateRSS creates an RSS 2.0 feed of job results. The feed is nil for results of all feeds.
func (g *Generator) GenerateRSS(feed *domain.Feed, results []domain.JobResult, now time.Time) (string, error) {
	title, selfLink := "feedgate - all feeds", g.baseURL+"/api/v1/results.rss"
	if feed != nil {
		name := feed.Title
		if name == "" {
			name = feed.URL
		}
		title = "feedgate - " + name
		selfLink = fmt.Sprintf("%s/api/v1/feeds/%d/results.rss", g.baseURL, feed.ID)
	}

	items := make([]*RSSItem, 0, len(results))
	for _, r := range results {
		items = append(items, g.resultItem(r))
	}

	doc := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Analysis results of admitted feed items",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: now.Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) resultItem(r domain.JobResult) *RSSItem {
	desc := r.Content
	if desc == "" {
		desc = fmt.Sprintf("%d words analysed", r.WordCount)
	}
	return &RSSItem{
		Title:       fmt.Sprintf("Feed %d, job %d", r.FeedID, r.JobID),
		Link:        fmt.Sprintf("%s/api/v1/jobs/%d", g.baseURL, r.JobID),
		GUID:        RSSGUID{Value: fmt.Sprintf("feedgate-job-%d", r.JobID)},
		Description: desc,
		PubDate:     r.CreatedAt.Format(time.RFC1123Z),
		Categories:  []string{fmt.Sprintf("feed-%d", r.FeedID)},
	}
}

// GenerateOPML creates an OPML file with subscriptions of active feeds
func (g *Generator) GenerateOPML(feeds []domain.Feed, now time.Time) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(feeds))
	for _, f := range feeds {
		if f.Status != domain.FeedActive {
			continue
		}
		text := f.Title
		if text == "" {
			text = f.URL
		}
		outlines = append(outlines, outline{Text: text, Title: text, Type: "rss", XMLUrl: f.URL})
	}

	doc := opml{
		Version: "2.0",
		Head:    head{Title: "feedgate subscriptions", DateCreated: now.Format(time.RFC1123Z)},
		Body:    body{Outlines: outlines},
	}
	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
