// Package summarizer turns a pull request's title, description and changed
// files into a short bullet summary and a tagged file listing.
//
// Everything here is pure: the same PullRequestInfo always produces the same
// Summary, and the functions are safe to call from multiple goroutines.
package summarizer

import (
	"slices"
	"strings"

	"github.com/clintrovert/prsummary/pkg/types"
)

// minTextPoints is the point count below which the title and description are
// considered too thin and the file list is consulted.
const minTextPoints = 2

// GenerateSummary builds the summary for a pull request
func GenerateSummary(pr *types.PullRequestInfo) types.Summary {
	var points []string

	if pr.Title != "" {
		points = append(points, bullet(pr.Title))
	}

	if pr.Description != "" {
		points = append(points, ExtractKeyPoints(pr.Description)...)
	}

	if len(points) < minTextPoints {
		for _, p := range InferChangesFromFiles(pr.ChangedFiles) {
			if !slices.Contains(points, p) {
				points = append(points, p)
			}
		}
	}

	return types.Summary{
		Description:   strings.Join(points, "\n"),
		AffectedFiles: FormatAffectedFiles(pr.ChangedFiles),
	}
}

// FormatAffectedFiles lists every file with its status tag, one per line
func FormatAffectedFiles(files []types.ChangedFile) string {
	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(f.Status.Tag())
		sb.WriteString(" ")
		sb.WriteString(f.Filename)
		sb.WriteString("\n")
	}
	return sb.String()
}
