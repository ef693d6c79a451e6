package unlock

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

// Limiter spaces out unlock attempts per database file. The first attempt
// on a file never waits.
type Limiter struct {
	files map[string]*rate.Limiter
	mu    sync.Mutex
	rate  rate.Limit
	burst int
}

// NewLimiter allows one attempt per interval on each file. A non-positive
// interval disables the delay.
func NewLimiter(interval time.Duration) *Limiter {
	r := rate.Inf
	if interval > 0 {
		r = rate.Every(interval)
	}
	return &Limiter{
		files: make(map[string]*rate.Limiter),
		rate:  r,
		burst: 1,
	}
}

func (l *Limiter) forFile(path string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.files[path]
	if !exists {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.files[path] = limiter
	}

	return limiter
}

// Wait blocks until another attempt on path is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, path string) error {
	if err := l.forFile(path).Wait(ctx); err != nil {
		return errors.Wrapf(err, "waiting to retry %s", path)
	}
	return nil
}
