// Package social links people to the target person using photo evidence taken
// from social-media feed documents. Each feed URL is fetched and parsed in its
// own task; a failing task never affects the others.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/sixdegrees/internal/metrics"
	"github.com/ajitpratap0/sixdegrees/internal/models"
	"github.com/ajitpratap0/sixdegrees/internal/store"
	"github.com/ajitpratap0/sixdegrees/pkg/caption"
)

const (
	// DefaultConcurrency is the default number of feed tasks in flight.
	DefaultConcurrency = 8

	// DefaultTimeout bounds a single fetch-and-parse task.
	DefaultTimeout = 15 * time.Second
)

// Options tunes an Ingestor.
type Options struct {
	Concurrency int
	Timeout     time.Duration
}

// Report summarizes a completed run.
type Report struct {
	RunID         string  `json:"run_id"`
	Feeds         int     `json:"feeds"`
	FeedsOK       int     `json:"feeds_ok"`
	FeedsFailed   int     `json:"feeds_failed"`
	Posts         int     `json:"posts"`
	PostsSkipped  int     `json:"posts_skipped"`
	PeopleCreated int     `json:"people_created"`
	EvidenceLinks int     `json:"evidence_links"`
	HashtagLinks  int     `json:"hashtag_links"`
	Errors        []error `json:"-"`
}

// Ingestor fetches feed documents and links tagged people to the target.
type Ingestor struct {
	graph   store.Graph
	fetcher Fetcher
	target  string
	opts    Options
	logger  *slog.Logger
}

// NewIngestor creates an Ingestor for the named target person.
func NewIngestor(graph store.Graph, fetcher Fetcher, target string, opts Options, logger *slog.Logger) *Ingestor {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		graph:   graph,
		fetcher: fetcher,
		target:  target,
		opts:    opts,
		logger:  logger,
	}
}

// EnsureTarget creates the target person if it is not already stored.
func (in *Ingestor) EnsureTarget() error {
	if strings.TrimSpace(in.target) == "" {
		return fmt.Errorf("social: target name must not be empty")
	}
	if _, _, err := in.graph.GetOrCreate(in.target, models.KindPerson); err != nil {
		return fmt.Errorf("social: creating target %q: %w", in.target, err)
	}
	return nil
}

// Run is an in-progress ingestion. Wait blocks until every task has finished.
type Run struct {
	ID   string
	done chan struct{}

	mu     sync.Mutex
	report Report
}

// Done is closed once all tasks have finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run settles and returns its report.
func (r *Run) Wait() Report {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	rep := r.report
	rep.Errors = append([]error(nil), r.report.Errors...)
	return rep
}

func (r *Run) snapshot() Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.report
}

func (r *Run) record(fn func(rep *Report)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.report)
}

// Start ensures the target exists and launches one task per URL without
// blocking. Cancelling ctx aborts tasks that have not finished.
func (in *Ingestor) Start(ctx context.Context, urls []string) *Run {
	run := &Run{
		ID:   uuid.NewString(),
		done: make(chan struct{}),
	}
	run.report.RunID = run.ID
	run.report.Feeds = len(urls)

	if err := in.EnsureTarget(); err != nil {
		run.report.Errors = append(run.report.Errors, err)
		run.report.FeedsFailed = len(urls)
		close(run.done)
		return run
	}

	logger := in.logger.With("run_id", run.ID)
	logger.Info("social ingestion started", "feeds", len(urls), "concurrency", in.opts.Concurrency)

	go func() {
		defer close(run.done)
		var g errgroup.Group
		g.SetLimit(in.opts.Concurrency)
		for _, url := range urls {
			g.Go(func() error {
				in.ingestURL(ctx, url, run, logger)
				return nil
			})
		}
		_ = g.Wait()

		rep := run.snapshot()
		logger.Info("social ingestion finished",
			"feeds_ok", rep.FeedsOK,
			"feeds_failed", rep.FeedsFailed,
			"posts", rep.Posts,
			"evidence_links", rep.EvidenceLinks,
		)
	}()
	return run
}

// Ingest runs Start and waits for it.
func (in *Ingestor) Ingest(ctx context.Context, urls []string) Report {
	return in.Start(ctx, urls).Wait()
}

func (in *Ingestor) ingestURL(ctx context.Context, url string, run *Run, logger *slog.Logger) {
	tctx, cancel := context.WithTimeout(ctx, in.opts.Timeout)
	defer cancel()

	fail := func(err error) {
		metrics.Inc(metrics.FeedsFailed)
		logger.Warn("skipping feed", "url", url, "error", err)
		run.record(func(rep *Report) {
			rep.FeedsFailed++
			rep.Errors = append(rep.Errors, err)
		})
	}

	data, err := in.fetcher.Fetch(tctx, url)
	if err != nil {
		fail(&FetchError{URL: url, Err: err})
		return
	}
	posts, skipped, err := ParseFeed(data)
	if err != nil {
		var fpe *FeedParseError
		if errors.As(err, &fpe) {
			fpe.URL = url
		}
		fail(err)
		return
	}
	metrics.Inc(metrics.FeedsFetched)

	var stats Report
	stats.Posts = len(posts)
	stats.PostsSkipped = skipped
	for i := range posts {
		metrics.Inc(metrics.PostsSeen)
		in.ingestPost(&posts[i], &stats, logger)
	}

	run.record(func(rep *Report) {
		rep.FeedsOK++
		rep.Posts += stats.Posts
		rep.PostsSkipped += stats.PostsSkipped
		rep.PeopleCreated += stats.PeopleCreated
		rep.EvidenceLinks += stats.EvidenceLinks
		rep.HashtagLinks += stats.HashtagLinks
	})
	logger.Debug("feed ingested", "url", url, "posts", len(posts), "skipped", skipped)
}

// ingestPost links every tagged person to the target. Only posts with an
// empty tagged-user array fall back to a hashtag named in the caption.
func (in *Ingestor) ingestPost(post *Post, stats *Report, logger *slog.Logger) {
	ev := models.PhotoEvidence{ImageURL: post.ImageURL, Location: post.Location}

	if post.Tagged > 0 {
		for _, name := range post.TaggedNames {
			in.link(name, ev, stats, logger)
		}
		return
	}

	name, ok := caption.HashtagCandidate(post.Caption)
	if !ok {
		return
	}
	if in.link(name, ev, stats, logger) {
		stats.HashtagLinks++
		metrics.Inc(metrics.HashtagLinks)
	}
}

func (in *Ingestor) link(name string, ev models.PhotoEvidence, stats *Report, logger *slog.Logger) bool {
	res, err := in.graph.LinkEvidence(in.target, name, ev)
	if err != nil {
		logger.Debug("not linking to target", "name", name, "error", err)
		return false
	}
	if res.Created {
		stats.PeopleCreated++
	}
	if !res.Linked {
		return false
	}
	stats.EvidenceLinks++
	metrics.Inc(metrics.EvidenceLinks)
	return true
}
