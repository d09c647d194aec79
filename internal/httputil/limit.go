// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"
)

// Limiter paces requests across every goroutine that shares it.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter returns a limiter admitting perSecond requests per second with
// a burst of one. A non-positive rate disables limiting.
func NewLimiter(perSecond float64) *Limiter {
	if perSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

// Wait blocks until the next request may be sent or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Do waits for the limiter and then sends req through DoWithRetry.
func (l *Limiter) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if err := l.Wait(ctx); err != nil {
		return nil, err
	}
	return DoWithRetry(ctx, client, req, 0)
}
