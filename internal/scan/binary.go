package scan

import (
	"bytes"
	"io"
	"os"
)

// binarySniffLen is the number of leading bytes inspected for a NUL byte.
const binarySniffLen = 1024

// IsBinaryFile reports whether the file at path appears to be binary,
// determined by the presence of a NUL byte in its first 1024 bytes.
// Unreadable files are treated as binary so they are skipped rather than
// failing the scan.
func IsBinaryFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	chunk := make([]byte, binarySniffLen)
	n, err := f.Read(chunk)
	if err != nil && err != io.EOF {
		return true
	}

	return bytes.IndexByte(chunk[:n], 0) >= 0
}
