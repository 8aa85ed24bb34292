package types

import (
	"encoding/json"
)

// FileStatus is the change kind of a single file in a pull request
type FileStatus int

const (
	FileModified FileStatus = iota
	FileAdded
	FileRemoved
	FileRenamed
)

// ParseFileStatus maps an upstream status string to a FileStatus.
// Anything it does not recognise is treated as a modification.
func ParseFileStatus(s string) FileStatus {
	switch s {
	case "added":
		return FileAdded
	case "removed":
		return FileRemoved
	case "renamed":
		return FileRenamed
	default:
		return FileModified
	}
}

// String returns the lowercase upstream name of the status
func (s FileStatus) String() string {
	switch s {
	case FileAdded:
		return "added"
	case FileRemoved:
		return "removed"
	case FileRenamed:
		return "renamed"
	default:
		return "modified"
	}
}

// Tag returns the three character marker used in the affected files listing
func (s FileStatus) Tag() string {
	switch s {
	case FileAdded:
		return "[+]"
	case FileRemoved:
		return "[-]"
	case FileRenamed:
		return "[R]"
	default:
		return "[M]"
	}
}

func (s FileStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *FileStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseFileStatus(raw)
	return nil
}

// ChangedFile is one file touched by a pull request
type ChangedFile struct {
	Filename  string     `json:"filename"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
}

// PullRequestInfo contains the pull request data the summarizer works on
type PullRequestInfo struct {
	Number       int           `json:"number,omitempty"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	BaseBranch   string        `json:"base_branch"`
	HeadBranch   string        `json:"head_branch"`
	Author       string        `json:"author"`
	ChangedFiles []ChangedFile `json:"changed_files"`
}

// Summary is the rendered result for a pull request
type Summary struct {
	Description   string `json:"description"`
	AffectedFiles string `json:"affected_files"`
}
