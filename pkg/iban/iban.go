// Package iban generates unique IBAN-shaped account numbers. It is a pure
// value-generation collaborator; the transaction engine never depends on it.
package iban

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Generator builds IBANs from a fixed country/check/bank prefix and a random
// numeric account-number suffix.
type Generator struct {
	countryCode         string
	checkDigits         string
	bankCode            string
	accountNumberLength int
}

// New creates a Generator. accountNumberLength is the number of random digits
// appended after the bank code.
func New(countryCode, checkDigits, bankCode string, accountNumberLength int) *Generator {
	return &Generator{
		countryCode:         countryCode,
		checkDigits:         checkDigits,
		bankCode:            bankCode,
		accountNumberLength: accountNumberLength,
	}
}

// Generate returns a new IBAN. Uniqueness rests on the random suffix; the
// accounts table's unique index backstops collisions.
func (g *Generator) Generate() (string, error) {
	suffix, err := g.randomDigits()
	if err != nil {
		return "", fmt.Errorf("generate iban: %w", err)
	}
	return g.countryCode + g.checkDigits + g.bankCode + suffix, nil
}

func (g *Generator) randomDigits() (string, error) {
	var sb strings.Builder
	sb.Grow(g.accountNumberLength)
	for range g.accountNumberLength {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
