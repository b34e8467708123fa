package logtest

import (
	"sync"
	"testing"
)

func TestLoggerPrintf(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		printfTests := []struct {
			format string
			v      []interface{}
			want   string
		}{
			{},
			{
				format: "Hello, %s",
				v:      []interface{}{"Alice"},
				want:   "Hello, Alice",
			},
			{
				format: "%s claimed %q for %d points",
				v:      []interface{}{"Bob", "STARE", 9},
				want:   `Bob claimed "STARE" for 9 points`,
			},
		}
		for i, test := range printfTests {
			var l Logger
			l.Printf(test.format, test.v...)
			got := l.String()
			if test.want != got {
				t.Errorf("Test %v:\nwanted: %v\ngot:    %v", i, test.want, got)
			}
		}
	})
	t.Run("async race", func(t *testing.T) {
		var l Logger
		n := 10
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				l.Printf("a")
				wg.Done()
			}()
		}
		wg.Wait()
		if want, got := "aaaaaaaaaa", l.String(); want != got {
			t.Errorf("not equal:\nwanted: %v\ngot:    %v", want, got)
		}
	})
}

func TestLoggerEmpty(t *testing.T) {
	emptyTests := []struct {
		contents string
		want     bool
	}{
		{
			want: true,
		},
		{
			contents: "",
			want:     true,
		},
		{
			contents: "here\nis some text!\n\t[and more]",
		},
	}
	for i, test := range emptyTests {
		var l Logger
		if len(test.contents) > 0 {
			l.Printf("%s", test.contents)
		}
		got := l.Empty()
		if test.want != got {
			t.Errorf("Test %v: empty states not equal: wanted: %v, got: %v", i, test.want, got)
		}
	}
}

func TestLoggerReset(t *testing.T) {
	contents := []string{
		"",
		"stuff",
		"1. there\n2. may be\n3. a TOOOOOOOOOOOOOOOOOON\n4. of stuff",
	}
	for i, data := range contents {
		var l Logger
		if len(data) > 0 {
			l.Printf("%s", data)
		}
		l.Reset()
		switch {
		case !l.Empty():
			t.Errorf("Test %v: wanted Logger to be empty after reset", i)
		case l.String() != "":
			t.Errorf("Test %v: wanted Logger string to be empty after reset, got %v", i, l.String())
		}
	}
}
