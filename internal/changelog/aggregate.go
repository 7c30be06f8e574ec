package changelog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/repokit/repokit/internal/git"
)

// Source is the read-only view of version control the engine needs.
type Source interface {
	// RevList returns non-merge commits reachable from end but not start,
	// newest first.
	RevList(ctx context.Context, start, end string) ([]string, error)
	// ResolveHash normalizes ref to a full hash, optionally requiring the
	// commit to be reachable from branch.
	ResolveHash(ctx context.Context, ref, branch string, checkBranch bool) (string, error)
	// Commit returns the metadata of a single commit.
	Commit(ctx context.Context, ref string) (git.CommitInfo, error)
}

// ProgressFunc is called after each commit is read. It may be called from
// several goroutines at once.
type ProgressFunc func(done, total int)

// DefaultWorkers is the number of commits read concurrently by default.
const DefaultWorkers = 4

// Options carries the per-run inputs of aggregation.
type Options struct {
	Repo    RepoRef
	Branch  string
	LastTag string
}

// Aggregator folds a revision range into a View.
type Aggregator struct {
	source   Source
	logger   *slog.Logger
	workers  int
	progress ProgressFunc
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithWorkers sets how many commits are read concurrently.
func WithWorkers(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n >= 1 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithProgress registers a callback invoked as commits are read.
func WithProgress(fn ProgressFunc) AggregatorOption {
	return func(a *Aggregator) {
		a.progress = fn
	}
}

// NewAggregator creates an Aggregator reading commits from source.
func NewAggregator(source Source, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		source:  source,
		logger:  slog.Default(),
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate parses every commit in revs (newest first), drops no-change
// commits and revert pairs, groups the rest by category, and computes the
// next version tag.
func (a *Aggregator) Aggregate(ctx context.Context, revs []string, opts Options) (*View, error) {
	records, err := a.fetch(ctx, revs)
	if err != nil {
		return nil, err
	}

	view := &View{
		Repo:        opts.Repo,
		PreviousTag: opts.LastTag,
	}
	if len(records) > 0 {
		current := records[0]
		view.Current = &current
	}

	position := make(map[string]int, len(records))
	for i, rec := range records {
		position[rec.LongHash] = i
	}

	order := Categories()
	groups := make(map[string][]CommitRecord, len(order))
	removed := make(map[string]struct{})
	var rank Rank

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := removed[rec.LongHash]; ok {
			continue
		}
		if rec.Semver == NoChange {
			continue
		}

		if rec.IsRevert {
			target, err := a.revertTarget(ctx, rec, opts.Branch)
			if err != nil {
				return nil, err
			}
			if idx, ok := position[target]; ok && idx > i {
				removed[target] = struct{}{}
				a.logger.Debug("dropping revert pair",
					slog.String("revert", rec.ShortHash),
					slog.String("reverted", target),
				)
				continue
			}
			a.logger.Debug("reverted commit outside range, keeping revert",
				slog.String("revert", rec.ShortHash),
				slog.String("reverted", target),
			)
			rec.Category = CategoryOther
		}

		rank |= rec.Rank()
		if !slices.Contains(order, rec.Category) {
			order = append(order, rec.Category)
		}
		groups[rec.Category] = append(groups[rec.Category], rec)
	}

	for _, title := range order {
		commits := groups[title]
		if len(commits) == 0 {
			continue
		}
		sort.SliceStable(commits, func(i, j int) bool {
			return commits[i].Rank() > commits[j].Rank()
		})
		view.Categories = append(view.Categories, Category{Title: title, Commits: commits})
	}

	tag, err := NextVersion(opts.LastTag, rank)
	if err != nil {
		return nil, err
	}
	view.Tag = tag
	view.Rank = rank

	a.logger.Debug("aggregated release",
		slog.Int("commits", view.CommitCount()),
		slog.Int("categories", len(view.Categories)),
		slog.String("previous_tag", view.PreviousTag),
		slog.String("tag", view.Tag),
	)
	return view, nil
}

// revertTarget resolves the full hash of the commit rec reverts. The target
// may live on any branch.
func (a *Aggregator) revertTarget(ctx context.Context, rec CommitRecord, branch string) (string, error) {
	short, err := RevertedHash(rec)
	if err != nil {
		return "", err
	}
	target, err := a.source.ResolveHash(ctx, short, branch, false)
	if err != nil {
		return "", fmt.Errorf("resolving commit reverted by %s: %w", rec.ShortHash, err)
	}
	return target, nil
}

// fetch reads and parses every commit in revs, preserving order.
func (a *Aggregator) fetch(ctx context.Context, revs []string) ([]CommitRecord, error) {
	records := make([]CommitRecord, len(revs))
	total := len(revs)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, hash := range revs {
		g.Go(func() error {
			info, err := a.source.Commit(ctx, hash)
			if err != nil {
				return err
			}
			records[i] = ParseCommit(info)
			if a.progress != nil {
				a.progress(int(done.Add(1)), total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
