package middleware

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// MaxUploadBytes caps the accepted image payload (20 MB).
const MaxUploadBytes = 20 << 20

// jpeg SOI marker and PNG signature
var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// ValidateImageUpload checks size bounds and magic bytes. Content-Type
// headers are client-controlled, so the sniff is on the payload itself.
func ValidateImageUpload(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image payload cannot be empty")
	}
	if len(data) > MaxUploadBytes {
		return fmt.Errorf("image payload exceeds %d bytes", MaxUploadBytes)
	}
	if !bytes.HasPrefix(data, jpegMagic) && !bytes.HasPrefix(data, pngMagic) {
		return fmt.Errorf("unsupported image format (allowed: jpeg, png)")
	}
	return nil
}

// SanitizeFilename strips path components and control characters so the
// client-supplied name is safe to log and embed in object keys.
func SanitizeFilename(name string) string {
	// Remove null bytes and control characters
	var b strings.Builder
	for _, r := range name {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	name = b.String()

	// keep only the final path element, whatever the client's OS was
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	if len(name) > 128 {
		name = name[len(name)-128:]
	}
	return name
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateSubmissionID validates submission ID format
func ValidateSubmissionID(id string) error {
	if id == "" {
		return fmt.Errorf("submission ID cannot be empty")
	}

	// UUID pattern
	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid submission ID format")
	}

	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
