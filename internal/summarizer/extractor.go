package summarizer

import (
	"strings"
)

// MaxKeyPoints bounds the number of bullets taken from a description
const MaxKeyPoints = 5

// ExtractKeyPoints collects the list items the author already wrote in the
// description. Lines starting with "-", "*" or "<digit>." qualify; everything
// else is ignored.
func ExtractKeyPoints(description string) []string {
	var points []string

	for _, line := range strings.Split(description, "\n") {
		trimmed := strings.TrimSpace(line)
		if !isListItem(trimmed) {
			continue
		}

		content := strings.TrimSpace(strings.TrimLeft(trimmed, "-*0123456789."))
		if content == "" {
			continue
		}

		points = append(points, bullet(content))
		if len(points) == MaxKeyPoints {
			break
		}
	}

	return points
}

func isListItem(line string) bool {
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
		return true
	}
	return len(line) >= 2 && line[0] >= '0' && line[0] <= '9' && line[1] == '.'
}

func bullet(s string) string {
	return "- " + s
}
