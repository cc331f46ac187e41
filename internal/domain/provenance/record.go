package provenance

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Record is a content-addressed provenance stamp for one submission. The
// verification hash covers the canonical serialization of the other fields,
// so editing any of them is detectable by re-deriving it. There is no
// chaining to prior records.
type Record struct {
	ContentHash      string `json:"content_hash"`
	Timestamp        string `json:"timestamp"`
	ByteSize         int64  `json:"byte_size"`
	VerificationHash string `json:"verification_hash,omitempty"`
}

// Stamp hashes the raw submission bytes and seals the record.
func Stamp(data []byte, now time.Time) (Record, error) {
	sum := sha256.Sum256(data)
	r := Record{
		ContentHash: hex.EncodeToString(sum[:]),
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		ByteSize:    int64(len(data)),
	}
	vh, err := r.derive()
	if err != nil {
		return Record{}, err
	}
	r.VerificationHash = vh
	return r, nil
}

// Verify re-derives the verification hash and compares.
func (r Record) Verify() bool {
	vh, err := r.derive()
	if err != nil {
		return false
	}
	return vh == r.VerificationHash
}

// derive hashes the canonical (sorted-key) serialization of the record
// minus the verification hash itself.
func (r Record) derive() (string, error) {
	canonical := map[string]any{
		"byte_size":    r.ByteSize,
		"content_hash": r.ContentHash,
		"timestamp":    r.Timestamp,
	}
	// json.Marshal writes map keys in sorted order, which is the canonical
	// form the verification hash is defined over.
	b, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("serializing provenance record: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
