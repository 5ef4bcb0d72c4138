package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainZone = "zonedbm/zone/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConstraintSetHash computes a content-addressed ID for a set of constraints.
// The constraints are rendered, sorted and deduplicated first, so the hash
// does not depend on the order they were produced in.
func ConstraintSetHash(cs []Constraint) (string, error) {
	canonical, err := MarshalCanonical(SortedStrings(ConstraintStrings(cs)))
	if err != nil {
		return "", fmt.Errorf("ConstraintSetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainZone, canonical), nil
}
