package tile

import "fmt"

// Bag holds the undrawn tiles for a game.
type Bag struct {
	tiles []Tile
}

// distributionLetters is the fixed letter distribution for a game: 98 tiles,
// one character per tile (A=9, B=2, C=2, D=4, E=12, F=2, G=3, H=2, I=9, J=1,
// K=1, L=4, M=2, N=6, O=8, P=2, Q=1, R=6, S=4, T=6, U=4, V=2, W=2, X=1, Y=2, Z=1).
const distributionLetters = "AAAAAAAAABBCCDDDDEEEEEEEEEEEEFFGGGHHIIIIIIIIIJKLLLLMMNNNNNNOOOOOOOOPPQRRRRRRSSSSTTTTTTUUUUVVWWXYYZ"

// NewBag creates a bag with the full letter distribution, shuffled with the provided function.
// The shuffle function is injected so tests can pin the draw order.
func NewBag(shuffleFunc func(tiles []Tile)) (*Bag, error) {
	if shuffleFunc == nil {
		return nil, fmt.Errorf("shuffle function required")
	}
	tiles := make([]Tile, len(distributionLetters))
	for i, ch := range distributionLetters {
		t, err := New(ID(i+1), ch)
		if err != nil {
			return nil, fmt.Errorf("creating tile: %w", err)
		}
		tiles[i] = *t
	}
	shuffleFunc(tiles)
	b := Bag{
		tiles: tiles,
	}
	return &b, nil
}

// DrawOne removes and returns the next tile, or false if the bag is empty.
func (b *Bag) DrawOne() (*Tile, bool) {
	if len(b.tiles) == 0 {
		return nil, false
	}
	t := b.tiles[0]
	b.tiles = b.tiles[1:]
	return &t, true
}

// Count returns the number of undrawn tiles.
func (b *Bag) Count() int {
	return len(b.tiles)
}

// LettersRemaining counts the undrawn tiles by letter.
// Letters with no remaining tiles are omitted.
func (b *Bag) LettersRemaining() map[Letter]int {
	counts := make(map[Letter]int, 26)
	for _, t := range b.tiles {
		counts[t.Ch]++
	}
	return counts
}
