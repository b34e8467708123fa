package tile

import "testing"

func TestNew(t *testing.T) {
	newTests := []struct {
		id     ID
		r      rune
		wantOk bool
		want   Tile
	}{
		{
			id: 3,
			r:  'a',
		},
		{
			id: 7,
			r:  '!',
		},
		{
			id: 3,
			r:  'A',
			want: Tile{
				ID: 3,
				Ch: 'A',
			},
			wantOk: true,
		},
	}
	for i, test := range newTests {
		got, err := New(test.id, test.r)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case test.want != *got:
			t.Errorf("Test %v:\nwanted %v\ngot    %v", i, test.want, *got)
		}
	}
}

func TestLetterText(t *testing.T) {
	l := Letter('Q')
	b, err := l.MarshalText()
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if string(b) != "Q" {
		t.Errorf("wanted Q, got %v", string(b))
	}
	var l2 Letter
	if err := l2.UnmarshalText(b); err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if l != l2 {
		t.Errorf("wanted %v, got %v", l, l2)
	}
	if err := l2.UnmarshalText([]byte("QQ")); err == nil {
		t.Error("wanted error for multi-character letter")
	}
	if err := l2.UnmarshalText([]byte("q")); err == nil {
		t.Error("wanted error for lowercase letter")
	}
}
