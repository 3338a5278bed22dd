// Package sync keeps a job consistent across the HardDisk, Inward and Outward
// collections and derives its canonical status.
package sync

import (
	"context"
	"sync"
	"time"

	"github.com/xelth-com/recoverydesk/internal/storage"
	"github.com/xelth-com/recoverydesk/internal/utils"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// DefaultPassword is the operator password installed when none is stored
const DefaultPassword = "admin123"

// Options holds engine behaviour switches
type Options struct {
	// PurgeOrphans makes job deletion also remove the job's invoices,
	// estimates and any customer no longer referenced by a job
	PurgeOrphans bool
}

// Change describes a committed mutation
type Change struct {
	Kind   string   `json:"kind"`
	JobIDs []string `json:"jobIds,omitempty"`
}

// ChangeListener is notified after every successful commit
type ChangeListener func(Change)

// Engine is the single writer over the record collections.
// All operations are serialized by mu and flushed as one commit unit.
type Engine struct {
	mu sync.Mutex

	store     storage.Store
	log       *zap.Logger
	ids       *utils.IDGenerator
	now       func() time.Time
	opts      Options
	listeners []ChangeListener

	defaultPassword string
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the allocator for auxiliary record ids
func WithIDGenerator(ids *utils.IDGenerator) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithDefaultPassword sets the password restored after ClearAllData
func WithDefaultPassword(password string) Option {
	return func(e *Engine) {
		if password != "" {
			e.defaultPassword = password
		}
	}
}

// WithOptions sets behaviour switches
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithChangeListener registers a callback for committed changes
func WithChangeListener(l ChangeListener) Option {
	return func(e *Engine) { e.listeners = append(e.listeners, l) }
}

// NewEngine creates an engine over the given store
func NewEngine(store storage.Store, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   log.Named("sync"),
		now:   time.Now,

		defaultPassword: DefaultPassword,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ids == nil {
		// node 1 is always in range
		e.ids, _ = utils.NewIDGenerator(1)
	}
	return e
}

// Options returns the engine's behaviour switches
func (e *Engine) Options() Options {
	return e.opts
}

// today is the UTC calendar date, matching timestamp
func (e *Engine) today() string {
	return e.now().UTC().Format(dateLayout)
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339Nano)
}

// run executes fn inside a fresh unit and commits it when fn succeeds
func (e *Engine) run(ctx context.Context, fn func(u *unit) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	u := e.begin(ctx)
	if err := fn(u); err != nil {
		return err
	}
	if err := u.commit(); err != nil {
		e.log.Error("commit failed", zap.Error(err))
		return err
	}
	return nil
}

// read executes fn against a unit that is never committed
func (e *Engine) read(ctx context.Context, fn func(u *unit) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.begin(ctx))
}

func (e *Engine) notify(kind string, jobIDs ...string) {
	if len(e.listeners) == 0 {
		return
	}
	c := Change{Kind: kind, JobIDs: jobIDs}
	for _, l := range e.listeners {
		l(c)
	}
}
