package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clintrovert/prsummary/pkg/types"
)

type fakeLister struct {
	mu    sync.Mutex
	refs  map[string][]types.PullRequestRef
	errs  map[string]error
	calls int
}

func (f *fakeLister) ListOpenPullRequests(_ context.Context, owner, repo string) ([]types.PullRequestRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	name := owner + "/" + repo
	return f.refs[name], f.errs[name]
}

func (f *fakeLister) set(name string, refs ...types.PullRequestRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs[name] = refs
}

var (
	hello = types.RepositoryInfo{Owner: "octo", Name: "hello"}
	world = types.RepositoryInfo{Owner: "octo", Name: "world"}
)

func ref(repo types.RepositoryInfo, number int, sha string) types.PullRequestRef {
	return types.PullRequestRef{Repository: repo, Number: number, HeadSHA: sha}
}

func drain(ch chan types.PullRequestRef) []types.PullRequestRef {
	var out []types.PullRequestRef
	for {
		select {
		case r := <-ch:
			out = append(out, r)
		default:
			return out
		}
	}
}

func TestPollDeduplicates(t *testing.T) {
	lister := &fakeLister{refs: map[string][]types.PullRequestRef{}, errs: map[string]error{}}
	lister.set("octo/hello", ref(hello, 1, "a"), ref(hello, 2, "b"))
	p := NewPoller(lister, []types.RepositoryInfo{hello}, time.Minute, zaptest.NewLogger(t))
	ch := make(chan types.PullRequestRef, 10)

	p.poll(context.Background(), ch)
	assert.Equal(t, []types.PullRequestRef{ref(hello, 1, "a"), ref(hello, 2, "b")}, drain(ch))

	p.poll(context.Background(), ch)
	assert.Empty(t, drain(ch))

	// a new push to #1 is a new revision
	lister.set("octo/hello", ref(hello, 1, "c"), ref(hello, 2, "b"))
	p.poll(context.Background(), ch)
	assert.Equal(t, []types.PullRequestRef{ref(hello, 1, "c")}, drain(ch))

	p.ClearProcessed()
	p.poll(context.Background(), ch)
	assert.Len(t, drain(ch), 2)
}

func TestPollContinuesPastFailingRepository(t *testing.T) {
	lister := &fakeLister{
		refs: map[string][]types.PullRequestRef{},
		errs: map[string]error{"octo/hello": errors.New("boom")},
	}
	lister.set("octo/world", ref(world, 5, "x"))
	p := NewPoller(lister, []types.RepositoryInfo{hello, world}, time.Minute, zaptest.NewLogger(t))
	ch := make(chan types.PullRequestRef, 10)

	p.poll(context.Background(), ch)
	assert.Equal(t, []types.PullRequestRef{ref(world, 5, "x")}, drain(ch))
}

func TestPollStopsOnCancelledContext(t *testing.T) {
	lister := &fakeLister{refs: map[string][]types.PullRequestRef{}, errs: map[string]error{}}
	lister.set("octo/hello", ref(hello, 1, "a"))
	p := NewPoller(lister, []types.RepositoryInfo{hello}, time.Minute, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.poll(ctx, make(chan types.PullRequestRef))

	// the unsent revision must still be emitted later
	ch := make(chan types.PullRequestRef, 1)
	p.poll(context.Background(), ch)
	assert.Equal(t, []types.PullRequestRef{ref(hello, 1, "a")}, drain(ch))
}

func TestStart(t *testing.T) {
	lister := &fakeLister{refs: map[string][]types.PullRequestRef{}, errs: map[string]error{}}
	lister.set("octo/hello", ref(hello, 1, "a"))
	p := NewPoller(lister, []types.RepositoryInfo{hello}, 10*time.Millisecond, zaptest.NewLogger(t))
	ch := make(chan types.PullRequestRef, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx, ch)
		close(done)
	}()

	select {
	case got := <-ch:
		assert.Equal(t, ref(hello, 1, "a"), got)
	case <-time.After(5 * time.Second):
		t.Fatal("no revision emitted")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}
	require.Empty(t, drain(ch))
}
