package utils

import (
	"bytes"
	"image/png"
	"regexp"
	"strings"
	"testing"
	"time"
)

var referralCodePattern = regexp.MustCompile(`^BA[0-9A-Z]+[A-Z2-7]{6}$`)

func TestGenerateReferralCode(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	seen := map[string]bool{}

	for i := 0; i < 200; i++ {
		code, err := GenerateReferralCode(now)
		if err != nil {
			t.Fatalf("GenerateReferralCode: %v", err)
		}
		if !referralCodePattern.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, referralCodePattern)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestReferralLink(t *testing.T) {
	tests := []struct {
		frontend string
		want     string
	}{
		{"https://vastu.example", "https://vastu.example/business_associate.html?ref=BAX1"},
		{"https://vastu.example/", "https://vastu.example/business_associate.html?ref=BAX1"},
	}
	for _, tt := range tests {
		if got := ReferralLink(tt.frontend, "BAX1"); got != tt.want {
			t.Errorf("ReferralLink(%q) = %q, want %q", tt.frontend, got, tt.want)
		}
	}
}

func TestReferralQRCode(t *testing.T) {
	img, err := ReferralQRCodePNG("https://vastu.example/business_associate.html?ref=BAX1")
	if err != nil {
		t.Fatalf("ReferralQRCodePNG: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != qrCodeSize || b.Dy() != qrCodeSize {
		t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), qrCodeSize, qrCodeSize)
	}

	uri, err := ReferralQRCodeDataURI("BAX1")
	if err != nil {
		t.Fatalf("ReferralQRCodeDataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("uri = %.40q", uri)
	}
}
