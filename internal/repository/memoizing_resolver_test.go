package repository

import (
	"context"
	"errors"
	"testing"

	"report-mailer/internal/domain"
)

// countingResolver is a mock inner resolver tracking lookups.
type countingResolver struct {
	records map[string]*domain.ContactRecord
	errs    map[string]error
	calls   int
}

func (c *countingResolver) Resolve(ctx context.Context, identifier string) (*domain.ContactRecord, error) {
	c.calls++
	if err, ok := c.errs[identifier]; ok {
		return nil, err
	}
	if rec, ok := c.records[identifier]; ok {
		return rec, nil
	}
	return nil, domain.ErrContactNotFound
}

func TestMemoizingResolver_CachesHits(t *testing.T) {
	inner := &countingResolver{records: map[string]*domain.ContactRecord{
		"12345678909": {Identifier: "12345678909", Name: "João", Email: "joao@example.com"},
	}}
	resolver := NewMemoizingResolver(inner)

	for i := 0; i < 3; i++ {
		rec, err := resolver.Resolve(context.Background(), "12345678909")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if rec.Email != "joao@example.com" {
			t.Fatalf("unexpected record %+v", rec)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected one upstream lookup, got %d", inner.calls)
	}
}

func TestMemoizingResolver_CachesNotFound(t *testing.T) {
	inner := &countingResolver{}
	resolver := NewMemoizingResolver(inner)

	for i := 0; i < 2; i++ {
		if _, err := resolver.Resolve(context.Background(), "98765432100"); !errors.Is(err, domain.ErrContactNotFound) {
			t.Fatalf("expected ErrContactNotFound, got %v", err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("not-found outcomes should be cached, got %d upstream lookups", inner.calls)
	}
}

func TestMemoizingResolver_DoesNotCacheTransientErrors(t *testing.T) {
	transient := errors.New("connection reset")
	inner := &countingResolver{errs: map[string]error{"12345678909": transient}}
	resolver := NewMemoizingResolver(inner)

	for i := 0; i < 2; i++ {
		if _, err := resolver.Resolve(context.Background(), "12345678909"); !errors.Is(err, transient) {
			t.Fatalf("expected transient error, got %v", err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("transient errors must be retried, got %d upstream lookups", inner.calls)
	}
}
