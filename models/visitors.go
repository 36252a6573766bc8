package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// VisitorDay is the unique-visitor count for one calendar day.
type VisitorDay struct {
	Date           string `json:"date"`
	UniqueVisitors int    `json:"uniqueVisitors"`
}

// VisitorStats is the response payload for the visitors endpoint.
type VisitorStats struct {
	Today       string       `json:"today"`
	UniqueToday int          `json:"uniqueToday"`
	Days        []VisitorDay `json:"days"`
}

// HashVisitor derives the anonymous visitor key stored in the visit
// table. Hashing the address together with the day means the same client
// produces a different key each day, so no cross-day tracking is possible.
func HashVisitor(remoteAddr, day string) string {
	sum := sha256.Sum256([]byte(remoteAddr + "|" + day))
	return hex.EncodeToString(sum[:])
}
