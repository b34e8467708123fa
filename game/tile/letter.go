package tile

import "errors"

// Letter is the value of a tile.
type Letter rune

// NewLetter creates a Letter from the rune.
func NewLetter(r rune) (Letter, error) {
	if r < 'A' || 'Z' < r {
		return 0, errors.New("letter must be uppercase and between A and Z: " + string(r))
	}
	return Letter(r), nil
}

// String returns the letter as a string.
func (l Letter) String() string {
	return string(rune(l))
}

// MarshalText serializes the letter as a single-character string.
func (l Letter) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText reads the letter from a single-character string.
func (l *Letter) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return errors.New("letter must be a single character: " + string(text))
	}
	l2, err := NewLetter(rune(text[0]))
	if err != nil {
		return err
	}
	*l = l2
	return nil
}
