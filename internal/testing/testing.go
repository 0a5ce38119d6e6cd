// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/shared"
)

// MockCatalog is a test double for [catalog.Catalog]. Lookups resolve from the
// Tracks slice; Calls records every method invocation in order. Err fails all
// methods; LookupErr fails only LookupISRC.
type MockCatalog struct {
	CatalogProvider models.Provider
	Tracks          []models.Track
	Err             error
	LookupErr       error
	Calls           []string
}

func (m *MockCatalog) Name() string { return string(m.CatalogProvider) }

func (m *MockCatalog) Provider() models.Provider { return m.CatalogProvider }

func (m *MockCatalog) Track(ctx context.Context, id string) (*models.Track, error) {
	m.Calls = append(m.Calls, "Track:"+id)
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range m.Tracks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, shared.ErrTrackNotFound
}

func (m *MockCatalog) LookupISRC(ctx context.Context, isrc string) (*models.Track, error) {
	m.Calls = append(m.Calls, "LookupISRC:"+isrc)
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range m.Tracks {
		if t.ISRC != "" && t.ISRC == isrc {
			return &t, nil
		}
	}
	return nil, shared.ErrNoMatch
}

func (m *MockCatalog) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	m.Calls = append(m.Calls, "Search:"+query)
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && len(m.Tracks) > limit {
		return m.Tracks[:limit], nil
	}
	return m.Tracks, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// RoundTripFunc adapts a function into an [http.RoundTripper] so tests can
// route by request URL.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// JSONResponse builds an HTTP response with the given status and JSON body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}
