// Package word implements the dictionary, the word-family index, and the
// word-formation engine that enumerates legal claims.
package word

import (
	"bufio"
	"errors"
	"io"
	"sort"
	"strings"
)

// MinLength is the minimum number of letters a claimed word must have.
const MinLength = 4

// Dictionary is the normalized set of claimable words.
type Dictionary struct {
	words  map[string]struct{}
	sorted []string
}

// NewDictionary consumes the words in the reader to use for validating and enumerating claims.
// Words are normalized to uppercase; words with characters outside A-Z are skipped.
func NewDictionary(r io.Reader) (*Dictionary, error) {
	if r == nil {
		return nil, errors.New("reader required to initialize dictionary from")
	}
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		w := strings.ToUpper(scanner.Text())
		if !onlyLetters(w) {
			continue
		}
		words[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sorted := make([]string, 0, len(words))
	for w := range words {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)
	d := Dictionary{
		words:  words,
		sorted: sorted,
	}
	return &d, nil
}

// Contains determines whether or not the word is in the dictionary.
// The word is normalized to uppercase before checking.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.words[strings.ToUpper(w)]
	return ok
}

// Words returns all words in ascending order.
// The returned slice is shared and must not be modified.
func (d *Dictionary) Words() []string {
	return d.sorted
}

// onlyLetters reports whether the word is non-empty and all characters are in the A-Z range.
func onlyLetters(w string) bool {
	if len(w) == 0 {
		return false
	}
	for _, r := range w {
		if r < 'A' || 'Z' < r {
			return false
		}
	}
	return true
}
