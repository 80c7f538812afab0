package document

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// DefaultNumberMaxRetries caps GenerateUnique when no limit is configured
const DefaultNumberMaxRetries = 3

// Sequence hands out suffixes for document numbers. Implementations decide
// whether suffixes are sequential per key or random.
type Sequence interface {
	Next(ctx context.Context, key string) (int64, error)
}

// SequenceFunc adapts a function to Sequence
type SequenceFunc func(ctx context.Context, key string) (int64, error)

// Next implements Sequence
func (f SequenceFunc) Next(ctx context.Context, key string) (int64, error) {
	return f(ctx, key)
}

// RandomSequence returns a random suffix between 1 and 999. It keeps no
// state, so collisions are possible and must be resolved by the caller.
type RandomSequence struct{}

// Next implements Sequence
func (RandomSequence) Next(context.Context, string) (int64, error) {
	return rand.Int64N(999) + 1, nil
}

// ReserveFunc claims a generated number. It returns an error matching
// ErrDuplicateDocumentNumber when the number is already taken.
type ReserveFunc func(ctx context.Context, number string) error

// NumberGenerator builds numbers of the form PREFIX-YYMM-NNN
type NumberGenerator struct {
	seq        Sequence
	now        func() time.Time
	maxRetries int
}

// NumberOption configures a NumberGenerator
type NumberOption func(*NumberGenerator)

// WithClock sets the time source used for the period part
func WithClock(now func() time.Time) NumberOption {
	return func(g *NumberGenerator) {
		g.now = now
	}
}

// WithMaxRetries sets how many attempts GenerateUnique makes
func WithMaxRetries(n int) NumberOption {
	return func(g *NumberGenerator) {
		if n > 0 {
			g.maxRetries = n
		}
	}
}

// NewNumberGenerator creates a generator drawing suffixes from seq
func NewNumberGenerator(seq Sequence, opts ...NumberOption) *NumberGenerator {
	if seq == nil {
		seq = RandomSequence{}
	}
	g := &NumberGenerator{
		seq:        seq,
		now:        time.Now,
		maxRetries: DefaultNumberMaxRetries,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SequenceKey returns the sequence key for an account, type and period
func SequenceKey(account string, t DocType, period string) string {
	return fmt.Sprintf("%s:%s:%s", strings.TrimSpace(account), t.Prefix(), period)
}

// Generate returns a new number for the account and document type. It does
// not guarantee uniqueness; see GenerateUnique.
func (g *NumberGenerator) Generate(ctx context.Context, account string, t DocType) (string, error) {
	if !t.IsValid() {
		return "", invalidInput("unknown document type %q", t)
	}
	period := g.now().Format("0601")
	n, err := g.seq.Next(ctx, SequenceKey(account, t, period))
	if err != nil {
		return "", fmt.Errorf("failed to get next document sequence: %w", err)
	}
	return fmt.Sprintf("%s-%s-%03d", t.Prefix(), period, n), nil
}

// GenerateUnique generates numbers until reserve accepts one. Only
// duplicate errors are retried; after maxRetries duplicates the last
// duplicate error is returned.
func (g *NumberGenerator) GenerateUnique(ctx context.Context, account string, t DocType, reserve ReserveFunc) (string, error) {
	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		number, err := g.Generate(ctx, account, t)
		if err != nil {
			return "", err
		}
		if reserve == nil {
			return number, nil
		}
		err = reserve(ctx, number)
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, ErrDuplicateDocumentNumber) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// NumberRegistry records which numbers an account has issued
type NumberRegistry interface {
	// Reserve claims number for account, failing with
	// ErrDuplicateDocumentNumber if it was claimed before.
	Reserve(ctx context.Context, account, number string) error
}

// ReserveIn binds a registry to an account for use with GenerateUnique
func ReserveIn(reg NumberRegistry, account string) ReserveFunc {
	if reg == nil {
		return nil
	}
	return func(ctx context.Context, number string) error {
		return reg.Reserve(ctx, account, number)
	}
}
