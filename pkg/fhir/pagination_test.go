package fhir_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/UB-BiomedicalInformatics/gofhir/pkg/fhir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSource serves a fixed page sequence keyed by the current page's next
// link.
type mockSource struct {
	pages map[string]fhir.Document
	err   error
	calls int
}

func (s *mockSource) Continue(_ context.Context, bundle fhir.Document) (fhir.Document, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	next, ok := bundle.NextLink()
	if !ok {
		return nil, nil
	}

	return s.pages[next], nil
}

func bundleWithNext(next string) fhir.Document {
	bundle := fhir.Document{"resourceType": "Bundle"}
	if next != "" {
		bundle["link"] = []interface{}{
			map[string]interface{}{"relation": "next", "url": next},
		}
	}

	return bundle
}

func TestPages(t *testing.T) {
	t.Parallel()

	t.Run("iterates all pages then EOF", func(t *testing.T) {
		t.Parallel()

		first := bundleWithNext("page2")
		source := &mockSource{pages: map[string]fhir.Document{
			"page2": bundleWithNext("page3"),
			"page3": bundleWithNext(""),
		}}

		pages := fhir.NewPages(source, first)
		ctx := context.Background()

		var count int

		for {
			_, err := pages.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}

			require.NoError(t, err)
			count++
		}

		assert.Equal(t, 3, count)
		assert.Equal(t, 2, source.calls)
		assert.False(t, pages.HasNext())

		_, err := pages.Next(ctx)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("single page needs no round trip", func(t *testing.T) {
		t.Parallel()

		source := &mockSource{}
		pages := fhir.NewPages(source, bundleWithNext(""))

		page, err := pages.Next(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, page)
		assert.False(t, pages.HasNext())

		_, err = pages.Next(context.Background())
		require.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 0, source.calls)
	})

	t.Run("nil first bundle is already exhausted", func(t *testing.T) {
		t.Parallel()

		source := &mockSource{}
		pages := fhir.NewPages(source, nil)

		assert.False(t, pages.HasNext())

		_, err := pages.Next(context.Background())
		require.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 0, source.calls)
	})

	t.Run("propagates source errors and stops", func(t *testing.T) {
		t.Parallel()

		sourceErr := errors.New("boom")
		source := &mockSource{err: sourceErr}
		pages := fhir.NewPages(source, bundleWithNext("page2"))

		_, err := pages.Next(context.Background())
		require.NoError(t, err)

		_, err = pages.Next(context.Background())
		require.ErrorIs(t, err, sourceErr)
		assert.False(t, pages.HasNext())

		_, err = pages.Next(context.Background())
		require.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 1, source.calls)
	})
}
