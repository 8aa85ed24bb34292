// Package event reads the GitHub Actions event payload that triggered a run.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoPullRequestNumber is returned when the payload names no pull request
var ErrNoPullRequestNumber = errors.New("could not find PR number in event payload")

type numbered struct {
	Number *int `json:"number"`
}

// ReadEvent reads the raw event payload from disk
func ReadEvent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file %s: %w", path, err)
	}
	return data, nil
}

// ExtractPRNumber finds the pull request number in an event payload. It looks
// at pull_request, then pull_request_target, then an issue carrying a
// pull_request key. A source that is absent or malformed is skipped.
func ExtractPRNumber(data []byte) (int, error) {
	var sources map[string]json.RawMessage
	if err := json.Unmarshal(data, &sources); err != nil {
		return 0, fmt.Errorf("failed to parse event JSON: %w", err)
	}

	for _, key := range []string{"pull_request", "pull_request_target"} {
		if n, ok := numberOf(sources[key]); ok {
			return n, nil
		}
	}

	var issue map[string]json.RawMessage
	if json.Unmarshal(sources["issue"], &issue) == nil {
		if _, isPR := issue["pull_request"]; isPR {
			if n, ok := numberOf(sources["issue"]); ok {
				return n, nil
			}
		}
	}

	return 0, ErrNoPullRequestNumber
}

// numberOf reads the number field of a JSON object
func numberOf(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}
	var obj numbered
	if json.Unmarshal(raw, &obj) != nil || obj.Number == nil {
		return 0, false
	}
	return *obj.Number, true
}

// PRNumberFromFile reads the event at path and extracts the PR number
func PRNumberFromFile(path string) (int, error) {
	data, err := ReadEvent(path)
	if err != nil {
		return 0, err
	}
	return ExtractPRNumber(data)
}
