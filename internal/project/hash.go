package project

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a SHA-256 value, compatible with source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by parts, each length-prefixed so that
// ("ab","c") and ("a","bc") differ. Result cache keys are built this way
// from the file hash and the options that affect analysis.
func Combine(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
