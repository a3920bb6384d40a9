// Package confirmcode produces the numeric one-time codes emailed to users.
package confirmcode

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const DefaultLength = 6

// Generator draws fixed-length decimal codes uniformly from [0, 10^length).
// Codes are zero-padded, so "004512" is a valid code.
type Generator struct {
	length int
	max    *big.Int
	random io.Reader
}

type Option func(*Generator)

// WithRandom replaces crypto/rand.Reader as the entropy source.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		g.random = r
	}
}

func NewGenerator(length int, opts ...Option) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	g := &Generator{
		length: length,
		max:    new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil),
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(g.random, g.max)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return fmt.Sprintf("%0*d", g.length, n.Int64()), nil
}

// Valid reports whether code has the generator's shape: exactly length ASCII digits.
func (g *Generator) Valid(code string) bool {
	if len(code) != g.length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
