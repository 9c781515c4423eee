package game

import (
	"crypto/rand"
	"math/big"
)

// Source yields uniformly distributed integers in [0, n).
// *math/rand/v2.Rand satisfies it, which is what tests inject.
type Source interface {
	IntN(n int) int
}

// CryptoSource draws from crypto/rand. It is the default Source.
type CryptoSource struct{}

// IntN returns a uniform value in [0, n). It panics if n <= 0.
func (CryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("game: CryptoSource.IntN called with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is unusable.
		panic("game: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}

// draw picks a value from the inclusive range [lo, hi].
func draw(src Source, lo, hi int) int {
	return lo + src.IntN(hi-lo+1)
}
