package llm

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/feedgate/pkg/domain"
)

// default system prompt for feed summaries
const defaultSystemPrompt = `You are an editor who writes a short digest of freshly published news items from one feed.
Write a single digest in plain text, no markdown headers, no lists of links.
Group related items, lead with the most significant story, keep every statement grounded in the items.
Write directly about the content. NEVER use phrases like "The article discusses" or "This feed covers".
Write the digest in the language of the items. Keep it under 250 words.`

// sanitizer strips all markup from feed text
var sanitizer = bluemonday.StrictPolicy()

// cleanText removes HTML tags and entities and collapses whitespace
func cleanText(s string) string {
	s = html.UnescapeString(sanitizer.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most n runes, appending "..." when cut
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// buildPrompt creates the user prompt for a job. Each item contributes its title, description
// and up to maxContent runes of content.
func buildPrompt(items []domain.Item, maxContent int) string {
	var sb strings.Builder
	sb.WriteString("Summarize these news items:\n\n")
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. Title: %s\n", i+1, cleanText(item.Title)))
		if desc := cleanText(item.Description); desc != "" {
			sb.WriteString(fmt.Sprintf("   Description: %s\n", truncate(desc, maxContent)))
		}
		if content := cleanText(item.Content); content != "" {
			sb.WriteString(fmt.Sprintf("   Content: %s\n", truncate(content, maxContent)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
