package summarizer

import (
	"strings"

	"github.com/clintrovert/prsummary/pkg/types"
)

// CommentMarker starts every comment this tool writes
const CommentMarker = "<!-- prsummary -->"

// RenderComment formats a summary as the markdown body of a PR comment
func RenderComment(s types.Summary) string {
	var sb strings.Builder

	sb.WriteString(CommentMarker + "\n")
	sb.WriteString("## PR Summary\n")

	if s.Description != "" {
		sb.WriteString("\n" + s.Description + "\n")
	}

	if s.AffectedFiles != "" {
		sb.WriteString("\n### Affected Files\n\n")
		sb.WriteString(s.AffectedFiles)
	}

	return sb.String()
}

// IsSummaryComment reports whether a comment body was written by RenderComment
func IsSummaryComment(body string) bool {
	return strings.HasPrefix(body, CommentMarker)
}
