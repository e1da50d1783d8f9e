// portwardenc encrypts an assignments JSON file into the versioned store
// format portward reads. It is the issuing side of the pipeline and is not
// installed on student hosts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/campusops/portward/internal/cipher"
)

func main() {
	out := flag.String("o", "student-port-assignments-v1.0.enc", "output file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: portwardenc [-o OUTPUT] assignments.json")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inPath, err)
	}

	// Reject malformed input before it gets baked into an opaque blob.
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s is not valid JSON: %w", inPath, err)
	}
	if _, ok := doc["assignments"]; !ok {
		return fmt.Errorf("%s has no \"assignments\" array", inPath)
	}

	encrypted, err := cipher.Encrypt(string(data))
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	if err := os.WriteFile(outPath, encrypted, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	fmt.Printf("✅ Wrote %s (%d bytes)\n", outPath, len(encrypted))
	return nil
}
