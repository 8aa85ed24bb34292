package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/pkg/types"
)

// PullRequestLister lists the open pull requests of a repository
type PullRequestLister interface {
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]types.PullRequestRef, error)
}

// Poller polls GitHub for pull request revisions that have not been summarized
type Poller struct {
	lister       PullRequestLister
	logger       *zap.Logger
	repositories []types.RepositoryInfo
	interval     time.Duration
	processed    map[string]bool
	mu           sync.RWMutex
}

// NewPoller creates a new pull request poller
func NewPoller(lister PullRequestLister, repositories []types.RepositoryInfo, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		lister:       lister,
		logger:       logger,
		repositories: repositories,
		interval:     interval,
		processed:    make(map[string]bool),
	}
}

// Start starts the polling loop
func (p *Poller) Start(ctx context.Context, refChan chan<- types.PullRequestRef) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial poll
	p.poll(ctx, refChan)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping pull request poller")
			return
		case <-ticker.C:
			p.poll(ctx, refChan)
		}
	}
}

// poll performs a single poll operation
func (p *Poller) poll(ctx context.Context, refChan chan<- types.PullRequestRef) {
	for _, repo := range p.repositories {
		refs, err := p.lister.ListOpenPullRequests(ctx, repo.Owner, repo.Name)
		if err != nil {
			p.logger.Error("failed to list open pull requests",
				zap.String("repository", repo.FullName()),
				zap.Error(err),
			)
			continue
		}

		for _, ref := range refs {
			key := ref.Key()
			if p.isProcessed(key) {
				continue
			}

			select {
			case refChan <- ref:
				p.markProcessed(key)
				p.logger.Info("found new pull request revision",
					zap.String("repository", ref.Repository.FullName()),
					zap.Int("pr_number", ref.Number),
					zap.String("head_sha", ref.HeadSHA),
				)
			case <-ctx.Done():
				return
			}
		}
	}
}

// isProcessed checks if a revision has been emitted
func (p *Poller) isProcessed(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.processed[key]
}

// markProcessed marks a revision as emitted
func (p *Poller) markProcessed(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed[key] = true
}

// ClearProcessed forgets every emitted revision so the next poll re-emits them
func (p *Poller) ClearProcessed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = make(map[string]bool)
}
