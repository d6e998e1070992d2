package feature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints. The version suffix
// leaves room for algorithm migration without colliding with old hashes.
const (
	DomainTransform = "homeprice/transform/v1"
	DomainReport    = "homeprice/report/v1"
	DomainRegistry  = "homeprice/registry/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed hash of any canonically
// serializable value under the given domain. Identical fitted state always
// fingerprints identically, which is what lets the store dedupe persisted
// transforms and lets tests assert determinism byte-for-byte.
func Fingerprint(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}
