package main

import (
	_ "embed" // the server is distributed as a single binary with a fallback word list
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var embeddedWords string

// wordsReader opens the words file, falling back to the embedded word list.
func wordsReader(m mainFlags) (io.ReadCloser, error) {
	if len(m.wordsFile) == 0 {
		return io.NopCloser(strings.NewReader(embeddedWords)), nil
	}
	f, err := os.Open(m.wordsFile)
	if err != nil {
		return nil, fmt.Errorf("opening words file: %w", err)
	}
	return f, nil
}
