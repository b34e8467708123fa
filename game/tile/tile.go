// Package tile contains the lettered pieces that move from the bag to the
// center pool and into claimed words.
package tile

type (
	// Tile is a piece in the game.  Tiles are immutable once created;
	// only their ownership changes.
	Tile struct {
		ID ID     `json:"id"`
		Ch Letter `json:"ch"`
	}

	// ID is the id of a tile.
	ID int
)

// New creates a new Tile, throwing an error if the letter is not uppercase in the A-Z range.
func New(id ID, r rune) (*Tile, error) {
	ch, err := NewLetter(r)
	if err != nil {
		return nil, err
	}
	t := Tile{
		ID: id,
		Ch: ch,
	}
	return &t, nil
}
