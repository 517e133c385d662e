package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// chunkSize bounds memory while streaming audio files through the digest.
const chunkSize = 8 * 1024

// AudioSHA256 streams the file at path through SHA-256 and returns the
// lowercase hex digest.
func AudioSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// TranscriptSHA256 hashes the transcript's UTF-8 bytes. The empty string is a
// valid input and hashes like any other.
func TranscriptSHA256(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// PairSHA256 combines the two hex digests: SHA256(audioHex + transcriptHex).
// Both inputs must already be lowercase hex.
func PairSHA256(audioHex, transcriptHex string) string {
	sum := sha256.Sum256([]byte(audioHex + transcriptHex))
	return hex.EncodeToString(sum[:])
}
