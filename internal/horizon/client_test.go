package horizon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchOffersDecodesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"_embedded": {"records": [
				{"id":"1","seller":"G1","selling":{"asset_type":"native"},"buying":{"asset_type":"credit_alphanum4","asset_code":"USD","asset_issuer":"G2"},"amount":"1.0","price":"1.0","last_modified_ledger":10}
			]},
			"_links": {"next": {"href": "https://horizon.example.org/offers?cursor=1"}}
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	page, err := c.FetchOffers(context.Background(), "", 10, "asc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Records) != 1 || page.Records[0].ID != "1" {
		t.Fatalf("got %+v", page.Records)
	}
	if page.Next != "1" {
		t.Errorf("Next = %q, want 1", page.Next)
	}
}

func TestFetchOffersReturnsHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.FetchOffers(context.Background(), "", 10, "asc")
	var statusErr *HTTPStatusError
	if err == nil {
		t.Fatal("expected error")
	}
	if !asHTTPStatusError(err, &statusErr) {
		t.Fatalf("expected *HTTPStatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d, want 503", statusErr.Code)
	}
}

func asHTTPStatusError(err error, target **HTTPStatusError) bool {
	if e, ok := err.(*HTTPStatusError); ok {
		*target = e
		return true
	}
	return false
}

func TestFetchOffersReturnsDecodeErrorOnMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.FetchOffers(context.Background(), "", 10, "asc")
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
}

func TestFetchOffersReturnsTransportErrorOnUnreachableHost(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.FetchOffers(ctx, "", 10, "asc")
	if _, ok := err.(*TransportError); !ok {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}

func TestStreamOffersDecodesEventsAndSkipsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		fmt.Fprintf(w, "data: %s\n\n", `{"id":"1","seller":"G1","selling":{"asset_type":"native"},"buying":{"asset_type":"credit_alphanum4","asset_code":"USD","asset_issuer":"G2"},"amount":"1.0","price":"1.0","last_modified_ledger":10}`)
		if flusher != nil {
			flusher.Flush()
		}
		fmt.Fprintf(w, "data: %s\n\n", `not json`)
		if flusher != nil {
			flusher.Flush()
		}
		fmt.Fprintf(w, "data: %s\n\n", `{"id":"2","seller":"G1","selling":{"asset_type":"native"},"buying":{"asset_type":"credit_alphanum4","asset_code":"USD","asset_issuer":"G2"},"amount":"1.0","price":"1.0","last_modified_ledger":11}`)
		if flusher != nil {
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items := c.StreamOffers(ctx)

	var offers int
	var errs int
	for item := range items {
		if item.Err != nil {
			errs++
			continue
		}
		offers++
	}

	if offers != 2 {
		t.Errorf("got %d offers, want 2", offers)
	}
	if errs != 1 {
		t.Errorf("got %d errors, want 1", errs)
	}
}
