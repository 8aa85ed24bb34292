package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeyPoints(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{
			name:        "mixed bullets and prose",
			description: "- a\n- b\nnot a bullet\n* c",
			want:        []string{"- a", "- b", "- c"},
		},
		{
			name:        "numbered items",
			description: "1. first\n2. second\n10. tenth",
			want:        []string{"- first", "- second"},
		},
		{
			name:        "indented and padded",
			description: "   -   spaced out   \n\t* tabbed",
			want:        []string{"- spaced out", "- tabbed"},
		},
		{
			name:        "markers only are dropped",
			description: "-\n*\n1.\n---\n- real",
			want:        []string{"- real"},
		},
		{
			name:        "stacked markers are all stripped",
			description: "*-2.nested\n- 3.5 release",
			want:        []string{"- nested", "- 3.5 release"},
		},
		{
			name:        "digit without dot is prose",
			description: "2 apples\n3) oranges",
			want:        nil,
		},
		{
			name:        "windows line endings",
			description: "- one\r\n- two\r\n",
			want:        []string{"- one", "- two"},
		},
		{
			name:        "empty",
			description: "",
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeyPoints(tt.description))
		})
	}
}

func TestExtractKeyPointsCapsAtFive(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("- item\n")
	}

	points := ExtractKeyPoints(sb.String())
	assert.Len(t, points, MaxKeyPoints)
}

func TestExtractKeyPointsKeepsFirstFive(t *testing.T) {
	points := ExtractKeyPoints("- a\n- b\n- c\n- d\n- e\n- f\n- g")
	assert.Equal(t, []string{"- a", "- b", "- c", "- d", "- e"}, points)
}
