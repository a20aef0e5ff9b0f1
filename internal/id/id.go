// Package id assigns identifiers to catalog records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Collection prefixes.
const (
	PrefixProduct  = "prd"
	PrefixCategory = "cat"
	PrefixBanner   = "bnr"
)

// maxAttempts bounds collision retries in GenerateUnique.
const maxAttempts = 8

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "prd-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// GenerateUnique returns an ID that taken reports as free among its siblings.
func GenerateUnique(prefix string, taken func(string) bool) (string, error) {
	for range maxAttempts {
		id, err := Generate(prefix)
		if err != nil {
			return "", err
		}
		if !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate unique %s id: exhausted %d attempts", prefix, maxAttempts)
}

// Preferred returns want when it is non-empty and free, otherwise a generated ID.
// Categories use it to keep readable slug ids such as "trava-mista".
func Preferred(want, prefix string, taken func(string) bool) (string, error) {
	if want != "" && !taken(want) {
		return want, nil
	}
	return GenerateUnique(prefix, taken)
}
