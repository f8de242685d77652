// Package horizon speaks the Horizon REST and SSE protocol for the
// /offers endpoint. It decodes wire form only; it never interprets
// business semantics (that is internal/sdex's job).
package horizon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	stellarerrors "github.com/stellar/go/support/errors"

	"github.com/DokaIzk/StellarRoute/internal/sdex"
)

// DefaultTimeout bounds every non-streaming request issued by Client.
const DefaultTimeout = 10 * time.Second

// Client speaks the Horizon REST/SSE protocol for offers.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client against baseURL. If httpClient is nil, a
// client with DefaultTimeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// TransportError wraps a network/TLS failure underneath a fetch.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return "horizon: transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx Horizon response.
type HTTPStatusError struct{ Code int }

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("horizon: unexpected status %d", e.Code)
}

// DecodeError reports malformed JSON in a Horizon response.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string { return "horizon: decode: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Page is one page of Horizon offers plus the cursor for the next page,
// if any.
type Page struct {
	Records []sdex.WireOffer
	Next    string
}

// FetchOffers issues one bounded-timeout GET against /offers. cursor may
// be empty to start from the default position. Failures are one of
// *TransportError, *HTTPStatusError, or *DecodeError, per spec.md §4.1;
// retrying is left to the caller.
func (c *Client) FetchOffers(ctx context.Context, cursor string, limit int, order string) (*Page, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if order != "" {
		q.Set("order", order)
	}

	endpoint := c.baseURL + "/offers?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Err: stellarerrors.Wrap(err, "build request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{Code: resp.StatusCode}
	}

	var wire sdex.WirePage
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &Page{Records: wire.Embedded.Records, Next: wire.NextCursor()}, nil
}
