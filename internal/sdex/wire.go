package sdex

import "time"

// WireAsset is the JSON shape of an asset as Horizon emits it, discriminated
// by AssetType.
type WireAsset struct {
	AssetType   string `json:"asset_type"`
	AssetCode   string `json:"asset_code,omitempty"`
	AssetIssuer string `json:"asset_issuer,omitempty"`
}

// WirePriceR is the exact rational price Horizon emits alongside the
// decimal price string.
type WirePriceR struct {
	N int32 `json:"n"`
	D int32 `json:"d"`
}

// WireOffer is the JSON shape of a single Horizon offer record.
type WireOffer struct {
	ID                 string     `json:"id"`
	PagingToken        string     `json:"paging_token,omitempty"`
	Seller             string     `json:"seller"`
	Selling            WireAsset  `json:"selling"`
	Buying             WireAsset  `json:"buying"`
	Amount             string     `json:"amount"`
	Price              string     `json:"price"`
	PriceR             *WirePriceR `json:"price_r,omitempty"`
	LastModifiedLedger uint32     `json:"last_modified_ledger"`
	LastModifiedTime   *time.Time `json:"last_modified_time,omitempty"`
}

// WireLink is a single HAL link.
type WireLink struct {
	Href string `json:"href"`
}

// WireLinks is the `_links` envelope Horizon wraps pages in.
type WireLinks struct {
	Next *WireLink `json:"next,omitempty"`
}

// WireEmbedded is the `_embedded` envelope carrying the page's records.
type WireEmbedded struct {
	Records []WireOffer `json:"records"`
}

// WirePage is a single page of Horizon offers.
type WirePage struct {
	Embedded WireEmbedded `json:"_embedded"`
	Links    *WireLinks   `json:"_links,omitempty"`
}

// NextCursor returns the cursor embedded in the page's next link, or ""
// if there is none.
func (p *WirePage) NextCursor() string {
	if p.Links == nil || p.Links.Next == nil {
		return ""
	}
	return cursorFromHref(p.Links.Next.Href)
}
