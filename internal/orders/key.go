package orders

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	keyAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	keyGroups     = 4
	keyGroupWidth = 4
)

var keyAlphabetSize = big.NewInt(int64(len(keyAlphabet)))

// KeyGenerator issues license keys.
type KeyGenerator interface {
	NewKey() (string, error)
}

// RandomKeys draws keys like 7Q2M-ZK0A-J4XW-1BTC from a random source.
type RandomKeys struct {
	Source io.Reader
}

// NewKey returns four dash-separated groups of four base-36 characters.
func (g RandomKeys) NewKey() (string, error) {
	src := g.Source
	if src == nil {
		src = rand.Reader
	}
	var b strings.Builder
	b.Grow(keyGroups*keyGroupWidth + keyGroups - 1)
	for group := 0; group < keyGroups; group++ {
		if group > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < keyGroupWidth; i++ {
			n, err := rand.Int(src, keyAlphabetSize)
			if err != nil {
				return "", fmt.Errorf("generate license key: %w", err)
			}
			b.WriteByte(keyAlphabet[n.Int64()])
		}
	}
	return b.String(), nil
}
