package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DokaIzk/StellarRoute/internal/sdex"
)

// fakeQuerier records the last Exec call and lets tests inject failures,
// enough to exercise Store's wrapping/propagation without a live Postgres.
type fakeQuerier struct {
	execErr    error
	lastQuery  string
	lastArgs   []interface{}
	queryRowFn func(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.lastQuery = sql
	f.lastArgs = args
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented in fake")
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if f.queryRowFn != nil {
		return f.queryRowFn(ctx, sql, args...)
	}
	return nil
}

func TestUpsertAssetWrapsExecError(t *testing.T) {
	fq := &fakeQuerier{execErr: errors.New("connection reset")}
	s := New(fq)
	err := s.UpsertAsset(context.Background(), "native", "", "")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestUpsertAssetPassesNullableColumnsForNative(t *testing.T) {
	fq := &fakeQuerier{}
	s := New(fq)
	if err := s.UpsertAsset(context.Background(), "native", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fq.lastArgs[1] != "" || fq.lastArgs[2] != "" {
		t.Errorf("expected empty code/issuer args for native, got %+v", fq.lastArgs)
	}
}

func TestUpsertOfferDerivesColumnsFromAssetKeys(t *testing.T) {
	fq := &fakeQuerier{}
	s := New(fq)

	native := sdex.NativeAsset()
	credit, err := sdex.CreditAsset("USD", "GISSUER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	offer := sdex.Offer{
		ID:      42,
		Seller:  "GSELLER",
		Selling: native,
		Buying:  credit,
		Amount:  "100.0",
		Price:   "1.0",
		PriceN:  1,
		PriceD:  1,
	}

	if err := s.UpsertOffer(context.Background(), offer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fq.lastArgs[0] != uint64(42) {
		t.Errorf("offer_id = %v, want 42", fq.lastArgs[0])
	}
	if fq.lastArgs[2] != "native" {
		t.Errorf("selling_asset_type = %v, want native", fq.lastArgs[2])
	}
	if fq.lastArgs[6] != "credit_alphanum4" {
		t.Errorf("buying_asset_type = %v, want credit_alphanum4", fq.lastArgs[6])
	}
}

func TestCanonicalFromColumnsNative(t *testing.T) {
	if got := canonicalFromColumns(nil, nil, nil); got != "native" {
		t.Errorf("got %q, want native", got)
	}
}

func TestCanonicalFromColumnsCredit(t *testing.T) {
	typ, code, issuer := "credit_alphanum4", "USD", "GISSUER"
	if got := canonicalFromColumns(&typ, &code, &issuer); got != "USD:GISSUER" {
		t.Errorf("got %q, want USD:GISSUER", got)
	}
}
