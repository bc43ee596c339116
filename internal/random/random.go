// Package random generates seed tokens and lobby codes with crypto/rand.
package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
)

const (
	seedCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Tokens implements engine.SeedGenerator.
type Tokens struct{}

func (Tokens) NewToken(length int) (string, error) {
	return token(seedCharset, length)
}

// Code returns an upper-case lobby code.
func Code(length int) (string, error) {
	return token(codeCharset, length)
}

func token(charset string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

// MathPicker implements engine.Picker on math/rand/v2.
type MathPicker struct {
	r *mrand.Rand
}

// NewPicker returns a picker seeded with seed, for reproducible selections.
func NewPicker(seed uint64) MathPicker {
	return MathPicker{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p MathPicker) Intn(n int) int {
	if p.r == nil {
		return mrand.IntN(n)
	}
	return p.r.IntN(n)
}
