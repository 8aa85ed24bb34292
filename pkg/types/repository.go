package types

import "fmt"

// RepositoryInfo identifies a GitHub repository
type RepositoryInfo struct {
	Owner string
	Name  string
}

// FullName returns the OWNER/REPO form of the repository
func (r RepositoryInfo) FullName() string {
	return r.Owner + "/" + r.Name
}

// PullRequestRef points at one revision of a pull request
type PullRequestRef struct {
	Repository RepositoryInfo
	Number     int
	HeadSHA    string
}

// Key identifies the revision for de-duplication
func (r PullRequestRef) Key() string {
	return fmt.Sprintf("%s#%d@%s", r.Repository.FullName(), r.Number, r.HeadSHA)
}
