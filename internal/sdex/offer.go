package sdex

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Offer is the canonical, normalized representation of a single SDEX offer.
type Offer struct {
	ID                 uint64
	Seller             string
	Selling            Asset
	Buying             Asset
	Amount             string
	Price              string
	PriceN             int32
	PriceD             int32
	LastModifiedLedger uint32
	LastModifiedTime   *time.Time
}

// ParseError reports why a wire offer or asset could not be converted to
// the canonical model. Per spec.md §4.2/§4.3, any ParseError is a per-record
// fault: the ingestion loop skips the record and continues.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "sdex: parse: " + e.Reason
}

func parseErrorf(format string, args ...interface{}) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// parseWireAsset converts a WireAsset into the canonical Asset, enforcing
// spec.md §4.2's rules: native ignores code/issuer, credit variants require
// both to be present.
func parseWireAsset(w WireAsset) (Asset, error) {
	switch w.AssetType {
	case string(AssetNative):
		return NativeAsset(), nil
	case string(AssetCreditAlphanum4), string(AssetCreditAlphanum12):
		if w.AssetCode == "" || w.AssetIssuer == "" {
			return Asset{}, parseErrorf("credit asset missing asset_code or asset_issuer")
		}
		return Asset{Type: AssetType(w.AssetType), Code: w.AssetCode, Issuer: w.AssetIssuer}, nil
	default:
		return Asset{}, parseErrorf("unknown asset_type %q", w.AssetType)
	}
}

// reconstructPriceRatio implements the §5/§9 Open-Question resolution: when
// price_r is absent, split price on "/" if present, else parse price as a
// plain decimal: a whole number becomes (n, 1) and a fractional one is
// scaled by 10^decimals (the "reconstruct" branch this spec chose over
// "reject"). A decimal that does not fit a non-negative 32-bit ratio is a
// parse failure.
func reconstructPriceRatio(price string) (n, d int32, err error) {
	const maxRatioPart = 1<<31 - 1

	if i := strings.IndexByte(price, '/'); i >= 0 {
		numStr, denStr := price[:i], price[i+1:]
		num, numErr := strconv.ParseInt(numStr, 10, 32)
		den, denErr := strconv.ParseInt(denStr, 10, 32)
		if numErr != nil || denErr != nil {
			return 0, 0, parseErrorf("malformed price ratio %q", price)
		}
		return int32(num), int32(den), nil
	}

	f, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, 0, parseErrorf("price %q is neither a ratio nor a decimal", price)
	}
	if !(f >= 0 && f <= maxRatioPart) {
		return 0, 0, parseErrorf("price %q does not fit a non-negative 32-bit ratio", price)
	}
	// No fractional precision to preserve beyond what the source gave us;
	// treat price as an integral numerator over denominator 1 when it
	// parses as a whole number, otherwise scale by the fractional length.
	if f == float64(int64(f)) {
		return int32(int64(f)), 1, nil
	}
	// Scale so the reconstructed ratio round-trips back to the same
	// decimal string to source precision, per spec.md §3's price invariant.
	dot := strings.IndexByte(price, '.')
	decimals := len(price) - dot - 1
	scale := int64(1)
	for i := 0; i < decimals && scale <= maxRatioPart; i++ {
		scale *= 10
	}
	num := int64(f*float64(scale) + 0.5)
	if scale > maxRatioPart || num > maxRatioPart {
		return 0, 0, parseErrorf("price %q does not fit a non-negative 32-bit ratio", price)
	}
	return int32(num), int32(scale), nil
}

// ParseWireOffer converts a Horizon wire offer into the canonical Offer,
// implementing every rule in spec.md §4.2. Any violation returns a
// *ParseError; the caller (internal/ingest) treats this as a skip, never a
// batch abort.
func ParseWireOffer(w WireOffer) (Offer, error) {
	id, err := strconv.ParseUint(w.ID, 10, 64)
	if err != nil {
		return Offer{}, parseErrorf("invalid offer id %q: %v", w.ID, err)
	}

	selling, err := parseWireAsset(w.Selling)
	if err != nil {
		return Offer{}, err
	}
	buying, err := parseWireAsset(w.Buying)
	if err != nil {
		return Offer{}, err
	}
	if selling.Equal(buying) {
		return Offer{}, parseErrorf("offer %d: selling == buying", id)
	}

	var priceN, priceD int32
	if w.PriceR != nil {
		priceN, priceD = w.PriceR.N, w.PriceR.D
	} else {
		priceN, priceD, err = reconstructPriceRatio(w.Price)
		if err != nil {
			return Offer{}, err
		}
	}
	if priceD <= 0 {
		return Offer{}, parseErrorf("offer %d: price_d must be > 0, got %d", id, priceD)
	}
	if priceN < 0 {
		return Offer{}, parseErrorf("offer %d: price_n must be >= 0, got %d", id, priceN)
	}

	return Offer{
		ID:                 id,
		Seller:             w.Seller,
		Selling:            selling,
		Buying:             buying,
		Amount:             w.Amount,
		Price:              w.Price,
		PriceN:             priceN,
		PriceD:             priceD,
		LastModifiedLedger: w.LastModifiedLedger,
		LastModifiedTime:   w.LastModifiedTime,
	}, nil
}

// cursorFromHref pulls the "cursor" query parameter out of a Horizon HAL
// link href, returning "" if absent or unparseable.
func cursorFromHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("cursor")
}
