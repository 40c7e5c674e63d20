package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrInvalidInput  = errors.New("store: invalid input")
	ErrLinkInactive  = errors.New("store: payment link is inactive")
	ErrLinkExhausted = errors.New("store: payment link has reached its claim limit")
	ErrLinkExpired   = errors.New("store: payment link has expired")
	ErrIDExhausted   = errors.New("store: could not allocate a unique link id")
	ErrTimeout       = errors.New("store: operation timed out")
)

// MaxListLimit caps every list query.
const MaxListLimit = 50

type Repository struct {
	db        *gorm.DB
	timeout   time.Duration
	now       func() time.Time
	newLinkID func() (string, error)
}

type Option func(*Repository)

// WithTimeout bounds every repository call; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Repository) { r.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func NewRepository(db *DB, opts ...Option) *Repository {
	r := &Repository{
		db:        db.DB,
		now:       time.Now,
		newLinkID: NewLinkID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// begin returns a gorm session bound to a context carrying the store timeout.
func (r *Repository) begin(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if r.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		return r.db.WithContext(ctx), cancel
	}
	ctx, cancel := context.WithCancel(ctx)
	return r.db.WithContext(ctx), cancel
}

func (r *Repository) nowMillis() int64 { return r.now().UnixMilli() }

func wrapErr(db *gorm.DB, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(db.Statement.Context.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
