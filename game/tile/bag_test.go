package tile

import "testing"

func TestNewBag(t *testing.T) {
	if _, err := NewBag(nil); err == nil {
		t.Error("wanted error when no shuffle function is provided")
	}
	shuffled := false
	b, err := NewBag(func(tiles []Tile) {
		shuffled = true
	})
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if !shuffled {
		t.Error("wanted tiles to be shuffled")
	}
	if want, got := 98, b.Count(); want != got {
		t.Errorf("wanted %v tiles, got %v", want, got)
	}
}

func TestBagDrawOne(t *testing.T) {
	reverse := func(tiles []Tile) {
		for i, j := 0, len(tiles)-1; i < j; i, j = i+1, j-1 {
			tiles[i], tiles[j] = tiles[j], tiles[i]
		}
	}
	b, err := NewBag(reverse)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	first, ok := b.DrawOne()
	if !ok {
		t.Fatal("wanted tile from full bag")
	}
	// the distribution ends in Z, so a reversed bag draws it first
	if want, got := Letter('Z'), first.Ch; want != got {
		t.Errorf("wanted first draw %v, got %v", want, got)
	}
	n := b.Count()
	for i := 0; i < n; i++ {
		if _, ok := b.DrawOne(); !ok {
			t.Fatalf("draw %v: wanted tile", i)
		}
	}
	if _, ok := b.DrawOne(); ok {
		t.Error("wanted no tile from empty bag")
	}
}

func TestBagLettersRemaining(t *testing.T) {
	b, err := NewBag(func(tiles []Tile) {})
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	counts := b.LettersRemaining()
	wantCounts := map[Letter]int{
		'A': 9, 'B': 2, 'C': 2, 'D': 4, 'E': 12, 'F': 2, 'G': 3, 'H': 2,
		'I': 9, 'J': 1, 'K': 1, 'L': 4, 'M': 2, 'N': 6, 'O': 8, 'P': 2,
		'Q': 1, 'R': 6, 'S': 4, 'T': 6, 'U': 4, 'V': 2, 'W': 2, 'X': 1,
		'Y': 2, 'Z': 1,
	}
	total := 0
	for l, want := range wantCounts {
		if got := counts[l]; want != got {
			t.Errorf("letter %v: wanted %v, got %v", l, want, got)
		}
		total += want
	}
	if total != 98 {
		t.Errorf("wanted distribution of 98 tiles, got %v", total)
	}
	b.DrawOne() // an A
	if want, got := 8, b.LettersRemaining()['A']; want != got {
		t.Errorf("wanted %v As after drawing one, got %v", want, got)
	}
}
