package cipher

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// storePassphrase must match the one used by the issuing tool that writes
// the encrypted assignment files. There is no rotation or per-deployment
// override; see the package comment for the threat model this implies.
const storePassphrase = "multi-student-compose-port-assignments-2024"

// assignmentKey derives the 32-byte AES key from the embedded passphrase
// using HKDF-SHA256, so the literal key bytes never appear in the binary.
func assignmentKey() []byte {
	h := hkdf.New(sha256.New, []byte(storePassphrase), nil, []byte("assignment-store"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		panic(err)
	}
	return key
}
