package upload

import (
	"bytes"
	"context"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/storage"
)

// Pipeline runs upload batches against one storage backend and one image store.
// A Pipeline is safe for concurrent use; each batch is independent.
type Pipeline struct {
	store          storage.Storage
	images         ImageStore
	keyFunc        KeyFunc
	callTimeout    time.Duration
	cleanupOrphans bool
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithKeyFunc replaces DefaultKey.
func WithKeyFunc(fn KeyFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.keyFunc = fn
		}
	}
}

// WithCallTimeout bounds every single storage or insert call. Zero disables it.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.callTimeout = d }
}

// WithOrphanCleanup deletes the stored object when its metadata insert fails.
// Off by default: the object is left in storage.
func WithOrphanCleanup(enabled bool) Option {
	return func(p *Pipeline) { p.cleanupOrphans = enabled }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline は store と images を使う Pipeline を生成する
func NewPipeline(store storage.Storage, images ImageStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:   store,
		images:  images,
		keyFunc: DefaultKey,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start validates the target and prepares a batch. Nothing is stored until the
// batch's outcomes are iterated.
func (p *Pipeline) Start(ctx context.Context, projectID string, candidates []Candidate) (*Batch, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, &ConfigurationError{Reason: "target project id is empty"}
	}
	if p.store == nil || p.images == nil {
		return nil, &ConfigurationError{Reason: "storage and image store are required"}
	}
	return &Batch{
		p:          p,
		ctx:        ctx,
		projectID:  projectID,
		candidates: append([]Candidate(nil), candidates...),
		abortedAt:  -1,
	}, nil
}

// Run drives a whole batch and collects its outcomes. The returned error is
// non-nil only when the batch could not start; a failed candidate is reported
// through Result.State and Result.Err.
func (p *Pipeline) Run(ctx context.Context, projectID string, candidates []Candidate, onProgress ProgressFunc) (*Result, error) {
	b, err := p.Start(ctx, projectID, candidates)
	if err != nil {
		return nil, err
	}
	b.OnProgress(onProgress)

	outcomes := make([]Outcome, 0, len(candidates))
	for o := range b.Outcomes() {
		outcomes = append(outcomes, o)
	}
	return b.result(outcomes), nil
}

// Batch is one invocation of the pipeline. Its outcomes can be consumed once.
// State, Progress, AbortedAt and Err may be polled from other goroutines.
type Batch struct {
	p          *Pipeline
	ctx        context.Context
	projectID  string
	candidates []Candidate
	onProgress ProgressFunc

	mu        sync.Mutex
	state     State
	consumed  bool
	completed int
	abortedAt int
	err       error
}

// OnProgress registers a callback invoked after each successful candidate.
// It must be set before iteration starts.
func (b *Batch) OnProgress(fn ProgressFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateIdle {
		b.onProgress = fn
	}
}

// ProjectID is the trimmed target project id.
func (b *Batch) ProjectID() string { return b.projectID }

// State is the current lifecycle state.
func (b *Batch) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Progress counts successful candidates so far.
func (b *Batch) Progress() Progress {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Progress{Completed: b.completed, Total: len(b.candidates)}
}

// AbortedAt is the index of the candidate that ended the batch, or -1.
func (b *Batch) AbortedAt() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.abortedAt
}

// Err is the reason the batch aborted, or nil.
func (b *Batch) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Outcomes yields one outcome per attempted candidate, in input order. The
// sequence stops after the first failure. A second iteration yields nothing.
// Breaking out early aborts the batch with ErrStopped at the first candidate
// that was not attempted.
func (b *Batch) Outcomes() iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		if !b.begin() {
			return
		}
		last := len(b.candidates) - 1
		for i, c := range b.candidates {
			if err := b.ctx.Err(); err != nil {
				b.abort(i, err)
				return
			}
			out := b.process(i, c)
			if out.Err != nil {
				b.abort(i, out.Err)
				yield(out)
				return
			}
			b.advance(i == last)
			if !yield(out) {
				if i != last {
					b.abort(i+1, ErrStopped)
				}
				return
			}
		}
	}
}

func (b *Batch) begin() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.consumed {
		return false
	}
	b.consumed = true
	if len(b.candidates) == 0 {
		b.state = StateCompleted
		return false
	}
	b.state = StateRunning
	return true
}

func (b *Batch) advance(done bool) {
	b.mu.Lock()
	b.completed++
	if done {
		b.state = StateCompleted
	}
	prog := Progress{Completed: b.completed, Total: len(b.candidates)}
	fn := b.onProgress
	b.mu.Unlock()

	if fn != nil {
		fn(prog)
	}
}

func (b *Batch) abort(index int, err error) {
	b.mu.Lock()
	b.state = StateAborted
	b.abortedAt = index
	b.err = err
	completed := b.completed
	b.mu.Unlock()

	b.p.logger.Warn("upload batch aborted",
		"project_id", b.projectID,
		"index", index,
		"completed", completed,
		"total", len(b.candidates),
		"error", err,
	)
}

func (b *Batch) process(i int, c Candidate) Outcome {
	p := b.p
	key := p.keyFunc(b.projectID, c)
	out := Outcome{Index: i, Key: key}

	ctx, cancel := p.callContext(b.ctx)
	err := p.store.Save(ctx, key, bytes.NewReader(c.Data), int64(len(c.Data)), contentType(c))
	cancel()
	if err != nil {
		out.Err = &StorageError{Index: i, Key: key, Op: "save", Err: err}
		return out
	}

	url, err := p.store.PublicURL(key)
	if err != nil {
		out.Err = &StorageError{Index: i, Key: key, Op: "public_url", Err: err}
		return out
	}

	img := &model.Image{ProjectID: b.projectID, URL: url, Filename: c.Filename}
	ctx, cancel = p.callContext(b.ctx)
	err = p.images.Insert(ctx, img)
	cancel()
	if err != nil {
		out.Err = &PersistenceError{Index: i, Key: key, Orphaned: !p.removeOrphan(b.ctx, key), Err: err}
		return out
	}

	p.logger.Info("image stored", "project_id", b.projectID, "index", i, "key", key, "image_id", img.ID)
	out.Image = img
	return out
}

// removeOrphan reports whether the object at key is gone.
func (p *Pipeline) removeOrphan(parent context.Context, key string) bool {
	if !p.cleanupOrphans {
		return false
	}
	ctx, cancel := p.callContext(context.WithoutCancel(parent))
	defer cancel()
	if err := p.store.Delete(ctx, key); err != nil {
		p.logger.Error("orphan cleanup failed", "key", key, "error", err)
		return false
	}
	return true
}

func (p *Pipeline) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if p.callTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, p.callTimeout)
}

func (b *Batch) result(outcomes []Outcome) *Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &Result{
		ProjectID: b.projectID,
		State:     b.state,
		Outcomes:  outcomes,
		Progress:  Progress{Completed: b.completed, Total: len(b.candidates)},
		AbortedAt: b.abortedAt,
		Err:       b.err,
	}
}

// Result is the collected record of a finished batch.
type Result struct {
	ProjectID string
	State     State
	Outcomes  []Outcome
	Progress  Progress
	AbortedAt int
	Err       error
}

// Images returns the recorded images in input order.
func (r *Result) Images() []*model.Image {
	images := make([]*model.Image, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Image != nil {
			images = append(images, o.Image)
		}
	}
	return images
}

// NotAttempted counts candidates that were never tried because the batch stopped.
func (r *Result) NotAttempted() int {
	return r.Progress.Total - len(r.Outcomes)
}
