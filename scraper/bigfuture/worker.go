package bigfuture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bigfuture-scraper/browser"
	"bigfuture-scraper/config"
	"bigfuture-scraper/models"
	"bigfuture-scraper/services"
	"bigfuture-scraper/storage"
	"bigfuture-scraper/utils"
)

// Session is the browser lifecycle surface the worker drives: the
// Engine plus page recycling and full context recreation.
type Session interface {
	browser.Engine
	RecyclePage(ctx context.Context) error
	RecreateContext(ctx context.Context) error
}

// WorkerDeps bundles the stores and collaborators a Worker needs.
type WorkerDeps struct {
	Session    Session
	Colleges   []models.College
	Dataset    *storage.Dataset
	Checkpoint *storage.Checkpoint
	Cache      *storage.SlugCache
	Misses     *storage.MissLog
	Mirror     storage.RowSink
}

// Worker drives the round-robin scrape loop: resolve, extract, derive,
// upsert, checkpoint, pace. It owns the failure-state transitions and
// session recovery; only a failed context recreation makes it return
// with an error.
type Worker struct {
	cfg       *config.Config
	logger    *utils.Logger
	sess      Session
	resolver  *Resolver
	extractor *Extractor

	colleges   []models.College
	dataset    *storage.Dataset
	checkpoint *storage.Checkpoint
	cache      *storage.SlugCache
	misses     *storage.MissLog
	mirror     storage.RowSink
	pacer      *utils.Pacer
}

// NewWorker builds the worker and its resolver/extractor pair.
func NewWorker(cfg *config.Config, logger *utils.Logger, deps WorkerDeps) *Worker {
	return &Worker{
		cfg:        cfg,
		logger:     logger,
		sess:       deps.Session,
		resolver:   NewResolver(deps.Session, deps.Cache, logger),
		extractor:  NewExtractor(deps.Session, logger),
		colleges:   deps.Colleges,
		dataset:    deps.Dataset,
		checkpoint: deps.Checkpoint,
		cache:      deps.Cache,
		misses:     deps.Misses,
		mirror:     deps.Mirror,
		pacer:      utils.NewPacer(cfg.ScrapeDelay),
	}
}

// Run processes the college list cyclically until ctx is canceled or
// the browser session becomes unrecoverable.
func (w *Worker) Run(ctx context.Context) error {
	if len(w.colleges) == 0 {
		return errors.New("worker: empty college list")
	}

	idx := w.checkpoint.Load()
	pageUses := 0
	consecutive := 0

	w.logger.Info("[worker] Starting at index %d (%d colleges, delay %s)",
		idx, len(w.colleges), w.cfg.ScrapeDelay)

	for {
		if err := ctx.Err(); err != nil {
			w.logger.Info("[worker] Stopping: %v", err)
			return nil
		}

		name := strings.TrimSpace(w.colleges[idx%len(w.colleges)].Name)
		if name == "" {
			w.logger.Warn("[worker] Empty name at index %d, skipping", idx)
			idx++
			continue
		}

		if pageUses >= w.cfg.PageRecycleAfter {
			w.logger.Info("[worker] Recycling page after %d uses", pageUses)
			if err := w.sess.RecyclePage(ctx); err != nil {
				w.logger.Warn("[worker] Page recycle failed, recreating context: %v", err)
				if err := w.sess.RecreateContext(ctx); err != nil {
					return fmt.Errorf("worker: recreate context: %w", err)
				}
			}
			pageUses = 0
		}

		scraped, err := w.processOne(ctx, name)
		switch {
		case errors.Is(err, context.Canceled):
			w.logger.Info("[worker] Interrupted while processing %q", name)
			return nil
		case err != nil:
			w.logger.Error("[worker] %s: %v", name, err)
			consecutive++
		case scraped:
			consecutive = 0
		default:
			// Resolution miss: recorded, not an error.
			consecutive = 0
		}

		if consecutive >= w.cfg.MaxConsecutive {
			w.logger.Warn("[worker] %d consecutive failures, restarting browser context", consecutive)
			if err := w.sess.RecreateContext(ctx); err != nil {
				return fmt.Errorf("worker: restart context: %w", err)
			}
			w.logger.Info("[worker] Browser context restarted")
			pageUses = 0
			consecutive = 0
		}

		pageUses++
		idx++
		if err := w.checkpoint.Save(idx); err != nil {
			w.logger.Warn("[worker] Could not save checkpoint: %v", err)
		}
		if idx%w.cfg.CacheSaveEvery == 0 {
			if err := w.cache.Save(); err != nil {
				w.logger.Warn("[worker] Could not save slug cache: %v", err)
			}
		}

		if err := w.pacer.Wait(ctx); err != nil {
			w.logger.Info("[worker] Stopping: %v", err)
			return nil
		}
	}
}

// processOne handles one college end to end. The bool reports whether
// a page was scraped; false with a nil error is a resolution miss.
func (w *Worker) processOne(ctx context.Context, name string) (bool, error) {
	res, err := w.resolver.Resolve(ctx, name)
	if err != nil {
		return false, fmt.Errorf("resolve %q: %w", name, err)
	}
	if res == nil {
		w.logger.Info("[worker] Skip (no page found): %s", name)
		if err := w.misses.Append(name); err != nil {
			w.logger.Warn("[worker] Could not record miss: %v", err)
		}
		return false, nil
	}

	rec, err := w.extractor.Extract(ctx, res.URL)
	if err != nil {
		return false, fmt.Errorf("extract %s: %w", res.URL, err)
	}

	row := services.Derive(rec)
	merged, err := w.dataset.Upsert(res.Name, row, name)
	if err != nil {
		return false, fmt.Errorf("upsert %q: %w", res.Name, err)
	}
	if w.mirror != nil {
		if err := w.mirror.UpsertRow(merged); err != nil {
			w.logger.Warn("[worker] Mirror upsert failed for %q: %v", res.Name, err)
		}
	}

	if res.Name != name {
		w.logger.Info("[worker] Scraped %s -> %s (name updated to: %s)", name, res.URL, res.Name)
	} else {
		w.logger.Info("[worker] Scraped %s -> %s", name, res.URL)
	}
	return true, nil
}
