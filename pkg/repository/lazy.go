package repository

import (
	"context"
	"sync"
)

// Dialer produces an authorized Driver. Credential acquisition is owned by
// the dialer; callers only see the resulting handle.
type Dialer func(ctx context.Context) (Driver, error)

// Lazy wraps a Dialer so the underlying driver is created once, on first use,
// and the same handle is shared by every subsequent call. Concurrent first
// calls are collapsed into a single dial.
type Lazy struct {
	dial Dialer

	once   sync.Once
	driver Driver
	err    error
}

func NewLazy(dial Dialer) *Lazy {
	return &Lazy{dial: dial}
}

// Get returns the shared driver, dialing it on first call.
// A dial failure is sticky: every caller observes the same error.
func (l *Lazy) Get(ctx context.Context) (Driver, error) {
	l.once.Do(func() {
		l.driver, l.err = l.dial(ctx)
	})

	return l.driver, l.err
}

// Close closes the underlying driver if it was ever created.
func (l *Lazy) Close() error {
	if l.driver == nil {
		return nil
	}

	return l.driver.Close()
}
