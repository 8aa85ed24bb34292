package workflows

import (
	"github.com/clintrovert/prsummary/pkg/types"
)

// SummaryRequest is the input for the summary workflow
type SummaryRequest struct {
	Repository     types.RepositoryInfo
	Number         int
	HeadSHA        string
	UpdateExisting bool
}

// SummaryResult is what the summary workflow produced and published
type SummaryResult struct {
	Description   string `json:"description"`
	AffectedFiles string `json:"affected_files"`
	Comment       string `json:"comment"`
	Posted        bool   `json:"posted"`
}
