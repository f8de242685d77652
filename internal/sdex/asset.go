// Package sdex implements the canonical SDEX offer and asset model: the
// normalized representation the ingestion pipeline upserts into Postgres
// and the API serves back out as JSON.
package sdex

import "fmt"

// AssetType discriminates the three Stellar asset variants.
type AssetType string

const (
	AssetNative           AssetType = "native"
	AssetCreditAlphanum4  AssetType = "credit_alphanum4"
	AssetCreditAlphanum12 AssetType = "credit_alphanum12"
)

// Asset is a tagged union over the three Stellar asset variants. Go has no
// sum types, so Native leaves Code/Issuer empty and callers discriminate on
// Type — the same flattening the original Rust enum serializes to.
type Asset struct {
	Type   AssetType
	Code   string
	Issuer string
}

// NativeAsset returns the canonical native (XLM) asset value.
func NativeAsset() Asset {
	return Asset{Type: AssetNative}
}

// CreditAsset builds a credit asset, choosing the alphanum4/alphanum12
// variant from the code length per spec: 1-4 characters is alphanum4,
// 5-12 is alphanum12.
func CreditAsset(code, issuer string) (Asset, error) {
	switch {
	case len(code) == 0 || len(code) > 12:
		return Asset{}, fmt.Errorf("sdex: asset code %q must be 1-12 characters", code)
	case len(code) <= 4:
		return Asset{Type: AssetCreditAlphanum4, Code: code, Issuer: issuer}, nil
	default:
		return Asset{Type: AssetCreditAlphanum12, Code: code, Issuer: issuer}, nil
	}
}

// Key returns the canonical projection used both as the Postgres conflict
// key and for equality: (type_tag, optional_code, optional_issuer). Native
// assets project both optionals to the empty string.
func (a Asset) Key() (assetType, code, issuer string) {
	if a.Type == AssetNative {
		return string(AssetNative), "", ""
	}
	return string(a.Type), a.Code, a.Issuer
}

// Equal reports structural equality across all fields.
func (a Asset) Equal(other Asset) bool {
	if a.Type != other.Type {
		return false
	}
	if a.Type == AssetNative {
		return true
	}
	return a.Code == other.Code && a.Issuer == other.Issuer
}

// Canonical returns the canonical string form: "native" for native assets,
// "CODE:ISSUER" when both are present, or the bare code if the issuer is
// absent (native assets never carry a code/issuer, so this branch only
// applies to malformed credit assets constructed outside CreditAsset).
func (a Asset) Canonical() string {
	if a.Type == AssetNative {
		return string(AssetNative)
	}
	if a.Issuer == "" {
		return a.Code
	}
	return a.Code + ":" + a.Issuer
}

// IsValid reports whether a is a well-formed asset per spec: native assets
// never carry code/issuer, and credit assets always carry a non-empty code
// within the length bound implied by their type.
func (a Asset) IsValid() bool {
	switch a.Type {
	case AssetNative:
		return a.Code == "" && a.Issuer == ""
	case AssetCreditAlphanum4:
		return len(a.Code) >= 1 && len(a.Code) <= 4 && a.Issuer != ""
	case AssetCreditAlphanum12:
		return len(a.Code) >= 5 && len(a.Code) <= 12 && a.Issuer != ""
	default:
		return false
	}
}
