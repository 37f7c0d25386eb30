package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

type Operation = func() error

// unrecoverableError marks a failure the schedule must not re-attempt.
type unrecoverableError struct {
	err error
}

func (e *unrecoverableError) Error() string { return e.err.Error() }
func (e *unrecoverableError) Unwrap() error { return e.err }

// Unrecoverable marks err so Do returns it after the current attempt, with
// the remaining retry budget untouched. Do unwraps the marker, so callers
// inspect the original error.
func Unrecoverable(err error) error {
	if err == nil {
		return nil
	}
	return &unrecoverableError{err: err}
}

// Config controls the backoff schedule. Retries is the number of extra
// attempts after the first one, so Retries=0 means the operation runs once.
type Config struct {
	Retries       int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func NewDefaultConfig() Config {
	return Config{
		Retries:       2,
		BackoffFactor: 2.0,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

// NewConfig returns the default schedule with the given retry count. Used by
// resolvers whose retry budget comes from configuration.
func NewConfig(retries int) Config {
	cfg := NewDefaultConfig()
	cfg.Retries = retries
	return cfg
}

type Retrier struct {
	config Config
}

func NewRetrier(config Config) *Retrier {
	return &Retrier{
		config: config,
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var err error
	delay := r.config.InitialDelay
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; attempt <= r.config.Retries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		var ue *unrecoverableError
		if errors.As(err, &ue) {
			return ue.err
		}

		if attempt == r.config.Retries {
			return err
		}

		jitter := time.Duration(rnd.Float64() * float64(r.config.Jitter))
		nextDelay := delay + jitter
		if nextDelay > r.config.MaxDelay {
			nextDelay = r.config.MaxDelay + jitter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(nextDelay):
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return err
}
