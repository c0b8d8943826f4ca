package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"image/png"
	"strconv"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// BAReferralPrefix starts every business associate referral code
const BAReferralPrefix = "BA"

const qrCodeSize = 256

// GenerateReferralCode generates a referral code for a BA.
// Format: BA{TIME}{RANDOM} where TIME is the base36 millisecond clock and
// RANDOM is 6 base32 characters, e.g. BALZ3K9Q1FXQ7ZK2
func GenerateReferralCode(now time.Time) (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)[:6]
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return BAReferralPrefix + stamp + randomStr, nil
}

// ReferralLink is the public signup/booking link that carries a code
func ReferralLink(frontendURL, code string) string {
	return strings.TrimRight(frontendURL, "/") + "/business_associate.html?ref=" + code
}

// ReferralQRCodePNG renders content as a PNG QR code
func ReferralQRCodePNG(content string) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	code, err = barcode.Scale(code, qrCodeSize, qrCodeSize)
	if err != nil {
		return nil, err
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, code); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// ReferralQRCodeDataURI renders content as a base64 PNG data URI
func ReferralQRCodeDataURI(content string) (string, error) {
	img, err := ReferralQRCodePNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img), nil
}
