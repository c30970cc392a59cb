package solabi

import "golang.org/x/crypto/sha3"

// Keccak256 hashes data with legacy Keccak-256, the digest used throughout
// the contract ABI (selectors, EIP-712).
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}
