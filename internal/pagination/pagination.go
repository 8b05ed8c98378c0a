package pagination

import (
	"context"
	"fmt"
	"iter"
)

// Page is one page of records returned by a provider
type Page[T any] struct {
	// Cursor is the token the page was requested with; empty for the first page
	Cursor string
	// Next is the continuation token reported with the page; empty when exhausted
	Next  string
	Items []T
	// Last is set when the provider has nothing after this page. It stays false
	// when the sequence stops on the record budget.
	Last bool
}

// FetchFunc fetches the page addressed by cursor and returns its records and the next cursor
type FetchFunc[T any] func(ctx context.Context, cursor string) (items []T, next string, err error)

// Fetcher follows continuation tokens of a provider until the feed is exhausted.
// It never retries; transient failures are handled by the provider client.
type Fetcher[T any] struct {
	fetch  FetchFunc[T]
	budget int
}

// Option configures a Fetcher
type Option[T any] func(*Fetcher[T])

// WithBudget stops the sequence once at least budget records were yielded. Zero means unlimited.
func WithBudget[T any](budget int) Option[T] {
	return func(f *Fetcher[T]) {
		f.budget = budget
	}
}

// NewFetcher creates a fetcher over a page fetch function
func NewFetcher[T any](fetch FetchFunc[T], opts ...Option[T]) *Fetcher[T] {
	f := &Fetcher[T]{fetch: fetch}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Pages returns a lazy sequence of pages starting at start.
// The sequence ends after a page without a next cursor, after an empty page,
// once the record budget is reached, or after the first error. Exhaustion is
// reported through Page.Last; an empty page is yielded as a terminal page without
// items so consumers can tell it apart from a budget stop. A consumer that stops
// ranging early prevents any further request. Resuming from the last page's Next
// cursor continues where the sequence stopped.
func (f *Fetcher[T]) Pages(ctx context.Context, start string) iter.Seq2[Page[T], error] {
	return func(yield func(Page[T], error) bool) {
		cursor := start
		fetched := 0
		for {
			if err := ctx.Err(); err != nil {
				yield(Page[T]{Cursor: cursor}, err)
				return
			}

			items, next, err := f.fetch(ctx, cursor)
			if err != nil {
				yield(Page[T]{Cursor: cursor}, fmt.Errorf("failed to fetch page %q: %w", cursor, err))
				return
			}

			// An empty page ends the feed even when the provider hands out a cursor
			if len(items) == 0 {
				yield(Page[T]{Cursor: cursor, Last: true}, nil)
				return
			}

			last := next == "" || next == cursor
			if !yield(Page[T]{Cursor: cursor, Next: next, Items: items, Last: last}, nil) {
				return
			}

			fetched += len(items)
			if last {
				return
			}
			if f.budget > 0 && fetched >= f.budget {
				return
			}
			cursor = next
		}
	}
}
