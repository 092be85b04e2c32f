package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/archivist/core"
	"github.com/poiesic/archivist/storage"
)

const (
	// DefaultRunName names the checkpoint of a run when none is given.
	DefaultRunName = "corpus"

	// DefaultCheckpointInterval is the number of finished units between checkpoints.
	DefaultCheckpointInterval = 500

	defaultMaxAttempts = 3
	defaultRetryDelay  = 100 * time.Millisecond
)

// Stats summarizes a run.
type Stats struct {
	Seen      uint64 // units yielded by the source
	Resumed   uint64 // units skipped because an earlier run finished them
	Processed uint64
	Failed    uint64
	Watermark uint64
}

// Pipeline processes a Source on a worker pool.
type Pipeline struct {
	processor          *Processor
	records            storage.RecordSink
	edges              storage.EdgeSink
	review             storage.ReviewQueue
	checkpoints        storage.CheckpointRepository
	pool               *ants.Pool
	run                string
	checkpointInterval int
	maxAttempts        int
	retryDelay         time.Duration
	progress           *ProgressTracker
	saveMu             sync.Mutex
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithEdgeSink sets where cross-reference edges go. Without one, edges
// are only kept on the record.
func WithEdgeSink(s storage.EdgeSink) Option {
	return func(p *Pipeline) error {
		p.edges = s
		return nil
	}
}

// WithReviewQueue sets where ambiguous links go.
func WithReviewQueue(q storage.ReviewQueue) Option {
	return func(p *Pipeline) error {
		p.review = q
		return nil
	}
}

// WithCheckpoints enables checkpointing and resume.
func WithCheckpoints(r storage.CheckpointRepository) Option {
	return func(p *Pipeline) error {
		p.checkpoints = r
		return nil
	}
}

// WithRunName sets the checkpoint name of the run.
func WithRunName(name string) Option {
	return func(p *Pipeline) error {
		if name == "" {
			return ErrEmptyRunName
		}
		p.run = name
		return nil
	}
}

// WithCheckpointInterval sets how many finished units separate checkpoints.
func WithCheckpointInterval(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("%w: checkpoint interval %d", ErrInvalidInterval, n)
		}
		p.checkpointInterval = n
		return nil
	}
}

// WithRetry sets the attempts and base delay for sink writes.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithProgress reports progress to t.
func WithProgress(t *ProgressTracker) Option {
	return func(p *Pipeline) error {
		p.progress = t
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline. The processor's index is already built,
// so every unit sees the same immutable index.
func NewPipeline(processor *Processor, records storage.RecordSink, opts ...Option) (*Pipeline, error) {
	if processor == nil {
		return nil, ErrProcessorRequired
	}
	if records == nil {
		return nil, ErrRecordSinkRequired
	}

	p := &Pipeline{
		processor:          processor,
		records:            records,
		run:                DefaultRunName,
		checkpointInterval: DefaultCheckpointInterval,
		maxAttempts:        defaultMaxAttempts,
		retryDelay:         defaultRetryDelay,
		logger:             slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	if p.pool == nil {
		if err := WithPoolSize(runtime.NumCPU() / 2)(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "pipeline", "run", p.run)
	return p, nil
}

// Run processes every document of src not covered by the stored
// checkpoint. Unit failures are counted, not returned; the error is
// non-nil only when the source fails, ctx ends or a checkpoint cannot be
// read.
//
// A checkpoint covers the first LastSeq units of the source. Those units
// are skipped only when the source still yields the same documents in the
// same order up to that point; otherwise the whole source is processed
// again.
func (p *Pipeline) Run(ctx context.Context, src Source) (Stats, error) {
	var stats Stats

	prior, err := p.loadCheckpoint(ctx)
	if err != nil {
		return stats, err
	}
	start := prior.LastSeq
	if start > 0 {
		p.logger.Info("resuming run", "after", start, "document", prior.LastDocumentID)
	}

	var (
		wm        = newWatermark(start, prior.LastDocumentID, prior.Digest)
		processed atomic.Uint64
		failed    atomic.Uint64
		finished  atomic.Uint64
		wg        sync.WaitGroup
		seq       uint64
	)

	// Saves are serialized and read the watermark under the lock so an
	// older watermark never overwrites a newer one.
	checkpoint := func(ctx context.Context) error {
		if p.checkpoints == nil {
			return nil
		}
		p.saveMu.Lock()
		defer p.saveMu.Unlock()
		last, lastID, digest := wm.current()
		return p.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
			Run:            p.run,
			LastSeq:        last,
			LastDocumentID: lastID,
			Digest:         digest,
			Processed:      prior.Processed + processed.Load(),
			Failed:         prior.Failed + failed.Load(),
		})
	}

	dispatch := func(unitSeq uint64, ref core.DocumentRef) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			err := p.unit(ctx, ref)
			if err != nil && ctx.Err() != nil {
				// Interrupted, not failed: leave it for the resumed run.
				return
			}
			if err != nil {
				failed.Add(1)
				p.logger.Error("document failed", "document", ref.ID, "seq", unitSeq, "error", err)
			} else {
				processed.Add(1)
			}
			wm.finish(unitSeq, ref.ID)
			if p.progress != nil {
				p.progress.Done(err != nil)
			}
			if finished.Add(1)%uint64(p.checkpointInterval) == 0 {
				if err := checkpoint(ctx); err != nil {
					p.logger.Warn("checkpoint failed", "error", err)
				}
			}
		})
		if submitErr != nil {
			wg.Done()
			return fmt.Errorf("submit %s: %w", ref.ID, submitErr)
		}
		return nil
	}

	// Units the checkpoint claims are held until the source is known to
	// match it.
	var (
		held     []core.DocumentRef
		digest   uint64
		resolved bool
	)
	resolve := func(matches bool) error {
		resolved = true
		if matches {
			stats.Resumed = uint64(len(held))
			held = nil
			if p.progress != nil {
				p.progress.Start(int(stats.Resumed))
			}
			return nil
		}
		if start > 0 {
			p.logger.Warn("source changed since checkpoint; processing from the start",
				"checkpoint_seq", start, "checkpoint_document", prior.LastDocumentID)
			prior.Processed, prior.Failed = 0, 0
		}
		wm.reset()
		if p.progress != nil {
			p.progress.Start(0)
		}
		units := held
		held = nil
		for i, ref := range units {
			if err := dispatch(uint64(i+1), ref); err != nil {
				return err
			}
		}
		return nil
	}
	if start == 0 {
		if err := resolve(false); err != nil {
			return stats, err
		}
	}

	walkErr := src.Walk(ctx, func(ref core.DocumentRef) error {
		seq++
		stats.Seen++
		if resolved {
			return dispatch(seq, ref)
		}
		held = append(held, ref)
		digest = chainDigest(digest, ref.ID)
		if seq < start {
			return nil
		}
		matches := ref.ID == prior.LastDocumentID && (prior.Digest == 0 || digest == prior.Digest)
		return resolve(matches)
	})
	if walkErr == nil && !resolved {
		// The source ended before reaching the checkpoint.
		walkErr = resolve(false)
	}
	wg.Wait()

	if err := checkpoint(context.WithoutCancel(ctx)); err != nil {
		p.logger.Warn("final checkpoint failed", "error", err)
	}
	if p.progress != nil {
		p.progress.Finish()
	}

	stats.Processed = processed.Load()
	stats.Failed = failed.Load()
	stats.Watermark, _, _ = wm.current()
	p.logger.Info("run finished", "seen", stats.Seen, "resumed", stats.Resumed,
		"processed", stats.Processed, "failed", stats.Failed, "watermark", stats.Watermark)

	if walkErr != nil {
		return stats, walkErr
	}
	return stats, nil
}

// unit processes and stores one document, turning a panic into an error.
func (p *Pipeline) unit(ctx context.Context, ref core.DocumentRef) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnitPanic, r)
		}
	}()

	doc, err := ref.Load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	out, err := p.processor.Process(doc)
	if err != nil {
		return err
	}

	if err := p.retry(ctx, func() error { return p.records.Emit(ctx, out.Record) }); err != nil {
		return fmt.Errorf("emit record: %w", err)
	}
	if p.edges != nil && len(out.Edges) > 0 {
		if err := p.retry(ctx, func() error { return p.edges.EmitEdges(ctx, out.Edges) }); err != nil {
			return fmt.Errorf("emit edges: %w", err)
		}
	}
	if p.review != nil && len(out.Ambiguities) > 0 {
		if err := p.retry(ctx, func() error { return p.review.EnqueueAmbiguities(ctx, out.Ambiguities...) }); err != nil {
			return fmt.Errorf("enqueue ambiguities: %w", err)
		}
	}
	return nil
}

func (p *Pipeline) retry(ctx context.Context, op func() error) error {
	return RetryWithBackoff(ctx, op, p.maxAttempts, p.retryDelay)
}

func (p *Pipeline) loadCheckpoint(ctx context.Context) (core.Checkpoint, error) {
	if p.checkpoints == nil {
		return core.Checkpoint{Run: p.run}, nil
	}
	cp, err := p.checkpoints.LoadCheckpoint(ctx, p.run)
	if err != nil {
		return core.Checkpoint{}, fmt.Errorf("load checkpoint: %w", err)
	}
	if cp == nil {
		return core.Checkpoint{Run: p.run}, nil
	}
	return *cp, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// IsInterrupted reports whether err ended a run early because its context ended.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
