package summarizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clintrovert/prsummary/pkg/types"
)

const (
	testsPoint = "- Added or updated tests"
	docsPoint  = "- Updated documentation"
)

// InferChangesFromFiles derives bullets from the shape of the changed file
// list alone. It is used when the title and description say too little.
func InferChangesFromFiles(files []types.ChangedFile) []string {
	var points []string

	if anyFile(files, isTestFile) {
		points = append(points, testsPoint)
	}
	if anyFile(files, isDocFile) {
		points = append(points, docsPoint)
	}

	groupPoints := componentPoints(files)
	points = append(points, groupPoints...)

	if len(groupPoints) == 0 && len(files) > 0 {
		points = append(points, fmt.Sprintf("- Modified %d files", len(files)))
	}

	return points
}

func anyFile(files []types.ChangedFile, pred func(string) bool) bool {
	for _, f := range files {
		if pred(f.Filename) {
			return true
		}
	}
	return false
}

func isTestFile(name string) bool {
	return strings.Contains(name, "test") || strings.Contains(name, "spec")
}

func isDocFile(name string) bool {
	return strings.HasSuffix(name, ".md") ||
		strings.HasSuffix(name, ".rst") ||
		strings.Contains(name, "doc") ||
		name == "README.md"
}

// componentPoints groups files by their top-level directory and describes
// every group of two or more files. Groups are visited in key order.
func componentPoints(files []types.ChangedFile) []string {
	groups := make(map[string][]types.ChangedFile)
	for _, f := range files {
		dir, _, found := strings.Cut(f.Filename, "/")
		if !found {
			dir = ""
		}
		groups[dir] = append(groups[dir], f)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var points []string
	for _, dir := range keys {
		members := groups[dir]
		if dir == "" || len(members) < 2 {
			continue
		}

		var added, modified, removed int
		for _, f := range members {
			switch f.Status {
			case types.FileAdded:
				added++
			case types.FileModified:
				modified++
			case types.FileRemoved:
				removed++
			}
		}

		switch {
		case added == len(members):
			points = append(points, fmt.Sprintf("- Added new %s component/module", dir))
		case removed == len(members):
			points = append(points, fmt.Sprintf("- Removed %s component/module", dir))
		case modified > 0:
			points = append(points, fmt.Sprintf("- Updated %s component/module", dir))
		}
	}

	return points
}
