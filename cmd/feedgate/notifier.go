package main

import (
	"context"
	"log"
)

// logNotifier delivers quota alerts to the log
type logNotifier struct{}

// Alert writes the alert as a warning, it never fails
func (logNotifier) Alert(_ context.Context, feedID int64, message string) error {
	log.Printf("[WARN] quota alert for feed %d: %s", feedID, message)
	return nil
}
