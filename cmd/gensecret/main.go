// Command gensecret prints a random hex-encoded key suitable for
// the SECRET_KEY setting used to sign access tokens.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// 32 bytes gives a full-entropy key for HMAC-SHA256
const signingKeyLen = 32

func main() {
	key := make([]byte, signingKeyLen)

	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "gensecret: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(key))
}
