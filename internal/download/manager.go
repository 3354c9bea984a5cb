package download

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/wggf/digest-downloader/internal/archive"
	"github.com/wggf/digest-downloader/internal/config"
	httpx "github.com/wggf/digest-downloader/internal/http"
	ioutils "github.com/wggf/digest-downloader/internal/io"
)

// Status classifies the outcome of fetching one candidate digest URL.
type Status int

const (
	// StatusSaved means the month has a real digest; Path and Body are set.
	StatusSaved Status = iota

	// StatusEmpty means the archive served its placeholder page: the
	// month has no digest. Nothing is written.
	StatusEmpty

	// StatusError means the fetch failed (transport, decoding, or a
	// non-200 status); Err is set. Nothing is written, no retry.
	StatusError
)

// Outcome is the per-URL result of fetching and classifying a candidate
// digest. Exactly one Outcome is produced for every enumerated URL.
type Outcome struct {
	// URL is the candidate URL that was requested.
	URL string

	// Status says what became of it.
	Status Status

	// Path is the destination file for a saved digest.
	Path string

	// Body is the decoded page content for a saved digest.
	Body string

	// Err is the failure cause for StatusError.
	Err error
}

// Summary describes a completed run.
type Summary struct {
	// Total is the number of candidate URLs fetched.
	Total int

	// Saved is the number of digests written to disk.
	Saved int

	// Empty is the number of months without a digest.
	Empty int

	// Failed is the number of per-item failures (fetch or write).
	Failed int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// OutputDir is where the digests were written.
	OutputDir string
}

// Manager coordinates one scrape of the mailing-list archive.
//
// A Manager authenticates once, fetches every candidate month through
// the shared session with bounded concurrency, writes real digests to
// disk as they arrive, and reports progress in completion order. It is
// single-use: create a new Manager for each run.
type Manager struct {
	settings *config.Settings
	run      config.RunConfig
	logger   *log.Logger

	completedFetches int32
	totalFetches     int32

	// onProgress, if non-nil, is called after each outcome with the
	// number of completed fetches and the grid total.
	onProgress func(completed, total int)
}

// NewManager creates a Manager for one run.
//
// The logger is required; pass a discarding logger to silence it. The
// onProgress callback may be nil.
func NewManager(settings *config.Settings, run config.RunConfig, logger *log.Logger, onProgress func(completed, total int)) *Manager {
	return &Manager{
		settings:   settings,
		run:        run,
		logger:     logger,
		onProgress: onProgress,
	}
}

// GetProgress returns the number of completed fetches and the grid
// total. Safe to call from another goroutine while Run is in flight;
// the TUI polls it for its progress bar.
func (m *Manager) GetProgress() (completed, total int) {
	return int(atomic.LoadInt32(&m.completedFetches)), int(atomic.LoadInt32(&m.totalFetches))
}

// Run performs the whole scrape and returns its Summary.
//
// Run authenticates, then keeps up to MaxConcurrentFetches requests in
// flight until every candidate month has resolved. Per-item failures
// (bad status, undecodable body, write error) are logged and counted
// but never abort the run; the only fatal error is failing to open the
// session in the first place. Run blocks until every outcome has been
// consumed, then closes the session.
func (m *Manager) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	urls := archive.MonthURLs(m.settings.ArchiveURL, m.settings.StartYear, time.Now().Year())
	atomic.StoreInt32(&m.totalFetches, int32(len(urls)))
	m.logger.Debug("enumerated candidate digests", "count", len(urls))

	session, err := httpx.NewSession(ctx, m.settings.AuthURL, m.run.Username, m.run.Password, m.logger)
	if err != nil {
		return Summary{}, fmt.Errorf("opening archive session: %w", err)
	}
	defer session.Close()

	results := make(chan Outcome, len(urls))

	var g errgroup.Group
	g.SetLimit(m.settings.MaxConcurrentFetches)
	go func() {
		for _, url := range urls {
			url := url
			g.Go(func() error {
				results <- m.fetchDigest(ctx, session, url)
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	// Single consumer: outcomes arrive in completion order, and the
	// writer and progress callback are driven from here so each item
	// stays strictly fetch -> classify -> write.
	summary := Summary{Total: len(urls), OutputDir: m.run.OutputDir}
	completed := 0
	for outcome := range results {
		completed++
		atomic.StoreInt32(&m.completedFetches, int32(completed))
		if m.onProgress != nil {
			m.onProgress(completed, len(urls))
		}

		switch outcome.Status {
		case StatusSaved:
			if err := ioutils.WriteDigest(outcome.Path, outcome.Body); err != nil {
				m.logger.Error("saving digest", "path", outcome.Path, "err", err)
				summary.Failed++
				continue
			}
			m.logger.Debug("saved monthly digest", "path", outcome.Path)
			summary.Saved++
		case StatusEmpty:
			m.logger.Debug("skipping empty monthly digest", "url", outcome.URL)
			summary.Empty++
		case StatusError:
			m.logger.Error("fetching digest", "url", outcome.URL, "err", outcome.Err)
			summary.Failed++
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, ctx.Err()
}

// fetchDigest resolves one candidate URL to an Outcome. It never
// touches the disk; writing is the drain loop's job.
func (m *Manager) fetchDigest(ctx context.Context, session *httpx.Session, url string) Outcome {
	body, finalURL, status, err := session.GetText(ctx, url)
	if err != nil {
		return Outcome{URL: url, Status: StatusError, Err: err}
	}

	if m.classify(body) {
		return Outcome{URL: url, Status: StatusEmpty}
	}

	if status != http.StatusOK {
		return Outcome{URL: url, Status: StatusError, Err: fmt.Errorf("HTTP %d", status)}
	}

	// The archive occasionally redirects; the filename comes from the
	// URL the page was actually served from.
	name := archive.DigestFileName(m.settings.FileNamePrefix, finalURL)
	return Outcome{
		URL:    url,
		Status: StatusSaved,
		Path:   filepath.Join(m.run.OutputDir, name),
		Body:   body,
	}
}

// classify reports whether body is the placeholder for a month without
// a digest. A panic inside the predicate is logged and treated as real
// content, so a classification bug can never silently discard a digest.
func (m *Manager) classify(body string) (empty bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("classifying digest body, keeping it", "panic", r)
			empty = false
		}
	}()
	return archive.IsEmpty(body)
}
