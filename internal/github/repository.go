package github

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/clintrovert/prsummary/pkg/types"
)

// ErrInvalidRepository is returned for anything that is not OWNER/REPO
var ErrInvalidRepository = errors.New("invalid repository format")

// ErrRepositoryNotSet is returned when GITHUB_REPOSITORY is empty
var ErrRepositoryNotSet = errors.New("GITHUB_REPOSITORY environment variable not set")

// ParseRepository splits an OWNER/REPO string
func ParseRepository(s string) (owner, repo string, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepository, s)
	}
	return parts[0], parts[1], nil
}

// ParseRepositories parses a comma separated list of OWNER/REPO entries
func ParseRepositories(s string) ([]types.RepositoryInfo, error) {
	var repos []types.RepositoryInfo
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		owner, name, err := ParseRepository(entry)
		if err != nil {
			return nil, err
		}
		repos = append(repos, types.RepositoryInfo{Owner: owner, Name: name})
	}
	return repos, nil
}

// RepositoryFromEnv resolves the repository from GITHUB_REPOSITORY
func RepositoryFromEnv() (owner, repo string, err error) {
	value := os.Getenv("GITHUB_REPOSITORY")
	if value == "" {
		return "", "", ErrRepositoryNotSet
	}
	return ParseRepository(value)
}
