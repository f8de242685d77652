package sdex

import "testing"

func TestCanonical(t *testing.T) {
	cases := []struct {
		name string
		a    Asset
		want string
	}{
		{"native", NativeAsset(), "native"},
		{"credit with issuer", Asset{Type: AssetCreditAlphanum4, Code: "USDC", Issuer: "GISSUER"}, "USDC:GISSUER"},
		{"credit without issuer", Asset{Type: AssetCreditAlphanum4, Code: "USDC"}, "USDC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Canonical(); got != tc.want {
				t.Errorf("Canonical() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCreditAssetPicksVariantByCodeLength(t *testing.T) {
	a4, err := CreditAsset("USDC", "GISSUER")
	if err != nil || a4.Type != AssetCreditAlphanum4 {
		t.Fatalf("expected alphanum4, got %+v err=%v", a4, err)
	}

	a12, err := CreditAsset("YIELDXLM00", "GISSUER")
	if err != nil || a12.Type != AssetCreditAlphanum12 {
		t.Fatalf("expected alphanum12, got %+v err=%v", a12, err)
	}

	if _, err := CreditAsset("", "GISSUER"); err == nil {
		t.Fatal("expected error for empty code")
	}
	if _, err := CreditAsset("TOOLONGCODE123", "GISSUER"); err == nil {
		t.Fatal("expected error for over-long code")
	}
}

func TestAssetEqual(t *testing.T) {
	if !NativeAsset().Equal(NativeAsset()) {
		t.Error("native should equal native")
	}
	credit := Asset{Type: AssetCreditAlphanum4, Code: "USDC", Issuer: "G1"}
	if NativeAsset().Equal(credit) {
		t.Error("native should not equal credit")
	}
	other := Asset{Type: AssetCreditAlphanum4, Code: "USDC", Issuer: "G1"}
	if !credit.Equal(other) {
		t.Error("identical credit assets should be equal")
	}
	differentIssuer := Asset{Type: AssetCreditAlphanum4, Code: "USDC", Issuer: "G2"}
	if credit.Equal(differentIssuer) {
		t.Error("credit assets with different issuers should not be equal")
	}
	differentType := Asset{Type: AssetCreditAlphanum12, Code: "USDC", Issuer: "G1"}
	if credit.Equal(differentType) {
		t.Error("alphanum4 should not equal alphanum12 with the same code")
	}
}

func TestAssetKeyNullEqualsNullForNative(t *testing.T) {
	typ, code, issuer := NativeAsset().Key()
	if typ != "native" || code != "" || issuer != "" {
		t.Errorf("native key = (%q, %q, %q), want (native, \"\", \"\")", typ, code, issuer)
	}
}

func TestAssetIsValid(t *testing.T) {
	if !NativeAsset().IsValid() {
		t.Error("native asset should be valid")
	}
	if (Asset{Type: AssetNative, Code: "X"}).IsValid() {
		t.Error("native asset with a code should be invalid")
	}
	valid, _ := CreditAsset("USDC", "GISSUER")
	if !valid.IsValid() {
		t.Error("well-formed credit asset should be valid")
	}
	if (Asset{Type: AssetCreditAlphanum4, Code: "USDC"}).IsValid() {
		t.Error("credit asset without an issuer should be invalid")
	}
}
