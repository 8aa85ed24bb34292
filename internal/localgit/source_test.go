package localgit

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/internal/summarizer"
	"github.com/clintrovert/prsummary/pkg/types"
)

func write(t *testing.T, fs billy.Filesystem, w *gogit.Worktree, name, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fs, name, []byte(content), 0644))
	_, err := w.Add(name)
	require.NoError(t, err)
}

func commit(t *testing.T, w *gogit.Worktree, msg string) plumbing.Hash {
	t.Helper()
	h, err := w.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return h
}

func setupRepo(t *testing.T) *gogit.Repository {
	t.Helper()
	fs := memfs.New()
	r, err := gogit.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	w, err := r.Worktree()
	require.NoError(t, err)

	write(t, fs, w, "src/a.go", "package a\n")
	write(t, fs, w, "src/b.go", "package b\n")
	write(t, fs, w, "old.txt", "old\n")
	write(t, fs, w, "docs/guide.md", "# Guide\n\nSome text that is long enough to be matched.\n")
	commit(t, w, "Initial commit")

	require.NoError(t, w.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature"),
		Create: true,
	}))

	write(t, fs, w, "src/a.go", "package a\n\nfunc A() {}\n")
	write(t, fs, w, "src/c.go", "package c\n")
	_, err = w.Remove("old.txt")
	require.NoError(t, err)
	_, err = w.Remove("docs/guide.md")
	require.NoError(t, err)
	write(t, fs, w, "docs/manual.md", "# Guide\n\nSome text that is long enough to be matched.\n")
	commit(t, w, "Add feature\n\n- first\n- second\n")

	return r
}

func TestLoad(t *testing.T) {
	src := NewSource(setupRepo(t), zap.NewNop())

	pr, err := src.Load(context.Background(), "master", "feature")
	require.NoError(t, err)

	assert.Equal(t, "Add feature", pr.Title)
	assert.Equal(t, "- first\n- second", pr.Description)
	assert.Equal(t, "master", pr.BaseBranch)
	assert.Equal(t, "feature", pr.HeadBranch)
	assert.Equal(t, "Test", pr.Author)

	assert.ElementsMatch(t, []types.ChangedFile{
		{Filename: "src/a.go", Status: types.FileModified, Additions: 2},
		{Filename: "src/c.go", Status: types.FileAdded, Additions: 1},
		{Filename: "old.txt", Status: types.FileRemoved, Deletions: 1},
		{Filename: "docs/manual.md", Status: types.FileRenamed},
	}, pr.ChangedFiles)
}

func TestLoadFeedsSummarizer(t *testing.T) {
	src := NewSource(setupRepo(t), zap.NewNop())

	pr, err := src.Load(context.Background(), "master", "feature")
	require.NoError(t, err)

	summary := summarizer.GenerateSummary(pr)
	assert.Equal(t, "- Add feature\n- first\n- second", summary.Description)
	assert.Len(t, pr.ChangedFiles, 4)
}

func TestLoadSameRevisionIsEmpty(t *testing.T) {
	src := NewSource(setupRepo(t), zap.NewNop())

	pr, err := src.Load(context.Background(), "feature", "feature")
	require.NoError(t, err)
	assert.Empty(t, pr.ChangedFiles)
}

func TestLoadUnknownRevision(t *testing.T) {
	src := NewSource(setupRepo(t), zap.NewNop())

	_, err := src.Load(context.Background(), "master", "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve revision does-not-exist")
}

func TestOpenMissingRepository(t *testing.T) {
	_, err := Open(t.TempDir(), zap.NewNop())
	assert.Error(t, err)
}
