package fhir

import (
	"context"
	"io"
)

// BundleSource follows a bundle's "next" link. fhir.Client satisfies it.
type BundleSource interface {
	Continue(ctx context.Context, bundle Document) (Document, error)
}

// Pages iterates over the pages of a search result, starting with the bundle
// the search returned and following "next" links through the source. It wraps
// the documented Continue loop; callers that need more control can drive
// Continue directly.
type Pages struct {
	source  BundleSource
	current Document
	first   bool
	done    bool
}

// NewPages creates an iterator over the pages of a search result. A nil first
// bundle yields an iterator that is already exhausted.
func NewPages(source BundleSource, first Document) *Pages {
	return &Pages{
		source:  source,
		current: first,
		first:   first != nil,
		done:    first == nil,
	}
}

// Next returns the next page. The first call returns the initial bundle;
// subsequent calls perform one round trip each. It returns io.EOF when there
// are no more pages.
func (p *Pages) Next(ctx context.Context) (Document, error) {
	if p.done {
		return nil, io.EOF
	}

	if p.first {
		p.first = false
		if _, ok := p.current.NextLink(); !ok {
			p.done = true
		}

		return p.current, nil
	}

	next, err := p.source.Continue(ctx, p.current)
	if err != nil {
		p.done = true

		return nil, err
	}

	if next == nil {
		p.done = true

		return nil, io.EOF
	}

	p.current = next
	if _, ok := next.NextLink(); !ok {
		p.done = true
	}

	return next, nil
}

// HasNext reports whether a call to Next will yield another page.
func (p *Pages) HasNext() bool {
	return !p.done
}
