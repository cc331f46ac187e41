package provenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampAndVerify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)
	r, err := Stamp([]byte("claim photo bytes"), now)
	require.NoError(t, err)

	assert.Len(t, r.ContentHash, 64)
	assert.Equal(t, int64(17), r.ByteSize)
	assert.Equal(t, "2025-06-01T12:00:00.123456789Z", r.Timestamp)
	assert.NotEmpty(t, r.VerificationHash)
	assert.True(t, r.Verify())
}

func TestStampIsDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a, err := Stamp([]byte("same bytes"), now)
	require.NoError(t, err)
	b, err := Stamp([]byte("same bytes"), now)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestVerifyDetectsTampering(t *testing.T) {
	r, err := Stamp([]byte("original"), time.Now())
	require.NoError(t, err)

	tampered := r
	tampered.ByteSize = 999
	assert.False(t, tampered.Verify())

	tampered = r
	tampered.ContentHash = "0000000000000000000000000000000000000000000000000000000000000000"
	assert.False(t, tampered.Verify())

	tampered = r
	tampered.Timestamp = time.Now().Add(time.Hour).UTC().Format(time.RFC3339Nano)
	assert.False(t, tampered.Verify())
}

func TestDifferentBytesDifferentHash(t *testing.T) {
	now := time.Now()
	a, err := Stamp([]byte("photo a"), now)
	require.NoError(t, err)
	b, err := Stamp([]byte("photo b"), now)
	require.NoError(t, err)

	assert.NotEqual(t, a.ContentHash, b.ContentHash)
	assert.NotEqual(t, a.VerificationHash, b.VerificationHash)
}
