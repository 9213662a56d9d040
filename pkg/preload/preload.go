// Package preload fetches batches of documents concurrently and folds them
// into formatted blocks plus an explicit failure report. One failing document
// never aborts the batch: every requested ID lands in exactly one of the
// succeeded or failed sets.
package preload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/convert"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/render"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/repository"
	"github.com/alethainc/aletha-knowledge-base-mcp/pkg/roles"
)

// MaxBatch caps caller-supplied batch sizes to bound context-window and
// fan-out cost. The operator-curated critical path is exempt.
const MaxBatch = 10

var defaultNumWorkers uint = 4

// ErrEmptyBatch is returned when the caller supplies no document IDs.
var ErrEmptyBatch = errors.New("no document IDs provided")

// ErrBatchTooLarge is returned before any backend call when a caller-supplied
// batch exceeds MaxBatch.
type ErrBatchTooLarge struct {
	Requested int
}

func (e ErrBatchTooLarge) Error() string {
	return fmt.Sprintf("too many documents requested: %d (max %d)", e.Requested, MaxBatch)
}

// Block is one successfully fetched and formatted document.
type Block struct {
	// ID is the requested document ID the block was built from.
	ID string

	// Text is the formatted block per the content formatter.
	Text string
}

// Failure records one document that could not be fetched.
type Failure struct {
	ID     string
	Reason string
}

// Result is the outcome of one batch. Blocks appear in request order for the
// IDs that succeeded; Failed lists the rest. len(Blocks)+len(Failed) always
// equals the number of requested IDs.
type Result struct {
	Blocks []Block
	Failed []Failure
}

// FailedIDs returns just the IDs of the failed set.
func (r Result) FailedIDs() []string {
	out := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		out[i] = f.ID
	}

	return out
}

// Config is the configuration options for a Preloader.
type Config struct {
	// Repo is the lazily-dialed backend handle.
	Repo *repository.Lazy

	// Converter renders fetched bytes into the requested output format.
	Converter convert.Converter

	// Roles resolves each document's role annotation.
	Roles *roles.Resolver

	// NumWorkers bounds fan-out concurrency (defaults to 4).
	NumWorkers uint

	// Logger is the configured zap logger.
	Logger *zap.Logger
}

// Preloader fetches document batches through a bounded worker fan-out.
type Preloader struct {
	config Config
}

// New validates the configuration and creates a Preloader.
func New(c Config) (*Preloader, error) {
	if c.Repo == nil {
		return nil, errors.New("repository handle is required")
	}
	if c.Converter == nil {
		return nil, errors.New("converter is required")
	}
	if c.Roles == nil {
		return nil, errors.New("role resolver is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	return &Preloader{config: c}, nil
}

// Fetch retrieves and formats a single document. Used by the single-document
// read path and by the batch workers.
func (p *Preloader) Fetch(ctx context.Context, id string, format convert.Format) (Block, error) {
	driver, err := p.config.Repo.Get(ctx)
	if err != nil {
		return Block{}, fmt.Errorf("connecting to document backend: %w", err)
	}

	meta, err := driver.Metadata(ctx, id)
	if err != nil {
		return Block{}, fmt.Errorf("fetching metadata for %s: %w", id, err)
	}

	data, mime, err := driver.Content(ctx, id)
	if err != nil {
		return Block{}, fmt.Errorf("fetching content for %s: %w", id, err)
	}

	rendered, err := p.config.Converter.Convert(data, mime, format)
	if err != nil {
		return Block{}, fmt.Errorf("converting %s: %w", id, err)
	}

	doc := render.Fetched{
		Document: meta,
		Rendered: rendered,
		Format:   format,
	}

	var role *roles.Descriptor
	if d, ok := p.config.Roles.Resolve(ctx, id); ok {
		role = &d
	}

	return Block{ID: id, Text: render.Format(doc, role)}, nil
}

// Preload fetches a caller-supplied batch. Structural misuse (empty or
// over-cap list) fails immediately, before any backend call; per-document
// failures are folded into the result instead.
func (p *Preloader) Preload(ctx context.Context, ids []string, format convert.Format) (Result, error) {
	if len(ids) == 0 {
		return Result{}, ErrEmptyBatch
	}
	if len(ids) > MaxBatch {
		return Result{}, ErrBatchTooLarge{Requested: len(ids)}
	}

	return p.fanOut(ctx, ids, format), nil
}

// Critical fetches the operator-curated critical document set. The set is
// short and fixed, so the batch cap does not apply, and the call never fails:
// a completely unreachable backend just yields an all-failed result.
func (p *Preloader) Critical(ctx context.Context, ids []string, format convert.Format) Result {
	if len(ids) == 0 {
		return Result{}
	}

	return p.fanOut(ctx, ids, format)
}

type outcome struct {
	block Block
	err   error
}

// fanOut runs the batch through a bounded worker pool and folds outcomes back
// into request order.
func (p *Preloader) fanOut(ctx context.Context, ids []string, format convert.Format) Result {
	batchID := uuid.NewString()
	logger := p.config.Logger.With(zap.String("batch_id", batchID))

	logger.Debug("preloading documents", zap.Int("count", len(ids)))

	workers := p.config.NumWorkers
	if uint(len(ids)) < workers {
		workers = uint(len(ids))
	}

	jobs := make(chan int)
	outcomes := make([]outcome, len(ids))

	var wg sync.WaitGroup
	wg.Add(int(workers))
	for range workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				block, err := p.Fetch(ctx, ids[i], format)
				outcomes[i] = outcome{block: block, err: err}
			}
		}()
	}

	for i := range ids {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var result Result
	for i, o := range outcomes {
		if o.err != nil {
			logger.Warn("document preload failed",
				zap.String("doc_id", ids[i]),
				zap.Error(o.err),
			)
			result.Failed = append(result.Failed, Failure{ID: ids[i], Reason: o.err.Error()})
			continue
		}
		result.Blocks = append(result.Blocks, o.block)
	}

	logger.Info("preload complete",
		zap.Int("succeeded", len(result.Blocks)),
		zap.Int("failed", len(result.Failed)),
	)

	return result
}
