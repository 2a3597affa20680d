package feed

import (
	"encoding/xml"
)

// RSS is the document served for analysis results, either of a single feed or of all feeds
type RSS struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *RSSChannel `xml:"channel"`
}

// RSSChannel holds the results of one source feed, or of every feed for the combined endpoint.
// Title names the source feed, falling back to its URL when the feed has no title.
type RSSChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *AtomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*RSSItem `xml:"item"`
}

// AtomLink points readers back at the results endpoint that produced the channel
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// RSSItem is one completed analysis job. Link leads to the job in the API,
// Description carries the summary or a word count when the job produced no summary,
// and the single category names the source feed as feed-<id>.
type RSSItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        RSSGUID  `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"` // job completion time
	Categories  []string `xml:"category"`
}

// RSSGUID identifies a result item as feedgate-job-<id>. It is stable across
// regenerations of the feed and is not a URL.
type RSSGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}
