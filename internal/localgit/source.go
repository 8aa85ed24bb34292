// Package localgit builds a PullRequestInfo from two revisions of a local
// repository, so a summary can be previewed before a pull request exists.
package localgit

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/pkg/types"
)

// Source reads change sets out of a git repository
type Source struct {
	repo   *git.Repository
	logger *zap.Logger
}

// Open opens the repository containing path
func Open(path string, logger *zap.Logger) (*Source, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return NewSource(r, logger), nil
}

// NewSource wraps an already opened repository
func NewSource(repo *git.Repository, logger *zap.Logger) *Source {
	return &Source{
		repo:   repo,
		logger: logger,
	}
}

// Load diffs head against its merge base with base. The head commit message
// provides the title (first line) and description (the rest).
func (s *Source) Load(ctx context.Context, base, head string) (*types.PullRequestInfo, error) {
	baseCommit, err := s.commit(base)
	if err != nil {
		return nil, err
	}
	headCommit, err := s.commit(head)
	if err != nil {
		return nil, err
	}

	from := baseCommit
	bases, err := baseCommit.MergeBase(headCommit)
	if err != nil {
		return nil, fmt.Errorf("failed to find merge base: %w", err)
	}
	if len(bases) > 0 {
		from = bases[0]
	}

	fromTree, err := from.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get base tree: %w", err)
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get head tree: %w", err)
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, headTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	files := make([]types.ChangedFile, 0, len(changes))
	for _, change := range changes {
		file, err := changedFile(ctx, change)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	title, description, _ := strings.Cut(strings.TrimSpace(headCommit.Message), "\n")

	s.logger.Debug("loaded local change set",
		zap.String("base", base),
		zap.String("head", head),
		zap.String("merge_base", from.Hash.String()),
		zap.Int("changed_files", len(files)),
	)

	return &types.PullRequestInfo{
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		BaseBranch:   base,
		HeadBranch:   head,
		Author:       headCommit.Author.Name,
		ChangedFiles: files,
	}, nil
}

func (s *Source) commit(rev string) (*object.Commit, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %s: %w", rev, err)
	}
	c, err := s.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", rev, err)
	}
	return c, nil
}

func changedFile(ctx context.Context, change *object.Change) (types.ChangedFile, error) {
	action, err := change.Action()
	if err != nil {
		return types.ChangedFile{}, fmt.Errorf("failed to classify change: %w", err)
	}

	name := change.To.Name
	status := "modified"
	switch action {
	case merkletrie.Insert:
		status = "added"
	case merkletrie.Delete:
		status = "removed"
		name = change.From.Name
	case merkletrie.Modify:
		if change.From.Name != change.To.Name {
			status = "renamed"
		}
	}

	patch, err := change.PatchContext(ctx)
	if err != nil {
		return types.ChangedFile{}, fmt.Errorf("failed to compute patch for %s: %w", name, err)
	}

	file := types.ChangedFile{
		Filename: name,
		Status:   types.ParseFileStatus(status),
	}
	for _, stat := range patch.Stats() {
		file.Additions += stat.Addition
		file.Deletions += stat.Deletion
	}

	return file, nil
}
