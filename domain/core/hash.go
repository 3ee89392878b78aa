package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex digits
func (h Hash) Short() string {
	if len(h) < 12 {
		return string(h)
	}
	return string(h[:12])
}

// DatasetHash fingerprints a feature matrix and its labels. Equal inputs
// give equal hashes regardless of the matrix implementation.
func DatasetHash(x mat.Matrix, y []float64) Hash {
	r, c := x.Dims()
	h := sha256.New()

	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	put(uint64(r))
	put(uint64(c))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			put(math.Float64bits(x.At(i, j)))
		}
	}
	put(uint64(len(y)))
	for _, v := range y {
		put(math.Float64bits(v))
	}
	return Hash(hex.EncodeToString(h.Sum(nil)))
}
