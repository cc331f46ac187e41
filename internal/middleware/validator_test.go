package middleware

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageUpload(t *testing.T) {
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x00}, 32)...)
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x00}, 32)...)

	assert.NoError(t, ValidateImageUpload(jpeg))
	assert.NoError(t, ValidateImageUpload(png))

	assert.Error(t, ValidateImageUpload(nil))
	assert.Error(t, ValidateImageUpload([]byte{}))
	assert.Error(t, ValidateImageUpload([]byte("GIF89a definitely not allowed")))
	assert.Error(t, ValidateImageUpload([]byte("<html>not an image</html>")))

	huge := make([]byte, MaxUploadBytes+1)
	copy(huge, jpeg)
	assert.Error(t, ValidateImageUpload(huge))
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"claim.jpg", "claim.jpg"},
		{"/etc/passwd", "passwd"},
		{"../../secret.png", "secret.png"},
		{`C:\Users\victim\photo.jpg`, "photo.jpg"},
		{"photo\x00.jpg", "photo.jpg"},
		{"photo\n\r.jpg", "photo.jpg"},
		{"", "upload"},
		{".", "upload"},
		{"..", "upload"},
		{"   ", "upload"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SanitizeFilename(c.in), "input %q", c.in)
	}

	long := strings.Repeat("a", 200) + ".jpg"
	got := SanitizeFilename(long)
	assert.Len(t, got, 128)
	assert.True(t, strings.HasSuffix(got, ".jpg"))
}

func TestValidateTenantID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("acme"))
	assert.NoError(t, ValidateTenantID("acme-insurance_01"))

	assert.Error(t, ValidateTenantID(""))
	assert.Error(t, ValidateTenantID("acme insurance"))
	assert.Error(t, ValidateTenantID("acme/../other"))
	assert.Error(t, ValidateTenantID(strings.Repeat("a", 65)))
}

func TestValidateSubmissionID(t *testing.T) {
	assert.NoError(t, ValidateSubmissionID("6f1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"))

	assert.Error(t, ValidateSubmissionID(""))
	assert.Error(t, ValidateSubmissionID("not-a-uuid"))
	assert.Error(t, ValidateSubmissionID("6F1B2C3D-4E5F-6071-8293-A4B5C6D7E8F9"))
	assert.Error(t, ValidateSubmissionID("6f1b2c3d4e5f60718293a4b5c6d7e8f9"))
}

func TestValidateLimitAndDays(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(5000))

	assert.Equal(t, 7, ValidateDays(0))
	assert.Equal(t, 30, ValidateDays(30))
	assert.Equal(t, 365, ValidateDays(1000))
}
