package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy acota los reintentos hacia servicios externos (directorio, índice).
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// Default: 3 intentos, 200ms inicial, tope total 3s.
func Default() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     time.Second,
		MaxElapsed:      3 * time.Second,
	}
}

// None ejecuta una sola vez.
func None() Policy {
	return Policy{MaxAttempts: 1}
}

func (p Policy) normalized() Policy {
	d := Default()
	if p.MaxAttempts == 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = d.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = d.MaxInterval
	}
	if p.MaxElapsed <= 0 {
		p.MaxElapsed = d.MaxElapsed
	}
	return p
}

// Budget es el tiempo máximo que puede consumir Do con esta política.
func (p Policy) Budget() time.Duration {
	return p.normalized().MaxElapsed
}

// Permanent marca un error como no reintentable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do ejecuta op con backoff exponencial. Devuelve el último error (sin envolver
// si era Permanent).
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	p = p.normalized()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op(ctx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.MaxAttempts),
		backoff.WithMaxElapsedTime(p.MaxElapsed),
	)
	return err
}

// Poll reintenta op a intervalo fijo hasta que tenga éxito o venza timeout.
// Lo usa el arranque para esperar a dependencias (p.ej. Elasticsearch).
func Poll(ctx context.Context, interval, timeout time.Duration, op func(ctx context.Context) error) error {
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op(ctx)
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(interval)),
		backoff.WithMaxElapsedTime(timeout),
	)
	return err
}
