package repository

import (
	"context"
	"errors"

	"report-mailer/internal/domain"
)

// MemoizingResolver wraps a ContactResolver with a per-run cache. The same
// identifier should not repeat within one batch, but when it does (suffixed
// artifacts from a repeated segment) the lookup is served from memory.
// Definitive outcomes are cached, including not-found; transient query
// errors are not, so a flaky connection does not poison the run.
type MemoizingResolver struct {
	inner domain.ContactResolver
	cache map[string]cachedLookup
}

type cachedLookup struct {
	record *domain.ContactRecord
	err    error
}

// NewMemoizingResolver creates the caching decorator.
func NewMemoizingResolver(inner domain.ContactResolver) *MemoizingResolver {
	return &MemoizingResolver{
		inner: inner,
		cache: make(map[string]cachedLookup),
	}
}

// Resolve returns the cached outcome when present, otherwise delegates.
func (m *MemoizingResolver) Resolve(ctx context.Context, identifier string) (*domain.ContactRecord, error) {
	if hit, ok := m.cache[identifier]; ok {
		return hit.record, hit.err
	}

	record, err := m.inner.Resolve(ctx, identifier)
	if err == nil || errors.Is(err, domain.ErrContactNotFound) || errors.Is(err, domain.ErrNoEmailOnFile) {
		m.cache[identifier] = cachedLookup{record: record, err: err}
	}
	return record, err
}
