package domain

import "time"

// Item represents a news article stored for a feed
type Item struct {
	ID          int64
	FeedID      int64
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	Author      string
	Published   time.Time
	CreatedAt   time.Time
}

// AnalysisInput is the resource an analysis job works on
type AnalysisInput struct {
	JobID  int64
	FeedID int64
	Items  []Item
}
