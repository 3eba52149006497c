package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// GenerateOrderRef generates an order reference code.
// Format: KNL-XXXXXXXX (uppercase uuid fragment).
func GenerateOrderRef() string {
	return "KNL-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// GenerateResetToken generates an opaque password reset token.
func GenerateResetToken() string {
	return strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a product name into a URL slug.
// "Paket Channel Anak" -> "paket-channel-anak".
func Slugify(name string) string {
	s := slugUnsafe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
