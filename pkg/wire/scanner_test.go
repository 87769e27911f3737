package wire

import "testing"

func TestScannerFind(t *testing.T) {
	sc := newScanner(`abc "key": 1`)
	if !sc.find(`"key"`) {
		t.Fatal("find failed")
	}
	if sc.pos != 4 {
		t.Errorf("pos = %d, want 4", sc.pos)
	}
	if sc.find("missing") {
		t.Error("find of absent substring should fail")
	}
	if sc.pos != 4 {
		t.Errorf("failed find moved cursor to %d", sc.pos)
	}
}

func TestScannerPeekAdvance(t *testing.T) {
	sc := newScanner("ab")
	c, ok := sc.peek()
	if !ok || c != 'a' {
		t.Fatalf("peek = %q, %v", c, ok)
	}
	sc.advance()
	sc.advance()
	if !sc.eof() {
		t.Error("expected eof after advancing past end")
	}
	sc.advance() // must not move past the end
	if _, ok := sc.peek(); ok {
		t.Error("peek at eof should fail")
	}
}

func TestScannerQuoted(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		escaped bool
		want    string
		wantOK  bool
	}{
		{"simple", `x "hello" y`, false, "hello", true},
		{"empty", `""`, false, "", true},
		{"no opening quote", `plain`, false, "", false},
		{"unterminated takes remainder", `"open`, false, "open", true},
		{"escaped quote stops simple scan", `"a\"b"`, false, `a\`, true},
		{"escaped quote continues escaped scan", `"a\"b"`, true, `a\"b`, true},
		{"escaped unterminated", `"a\"`, true, `a\"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newScanner(tt.input)
			got, ok := sc.quoted(tt.escaped)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("quoted = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScannerBalanced(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"flat", `{"a":1} tail`, `{"a":1}`, true},
		{"nested", `{"a":{"b":{"c":3}}}`, `{"a":{"b":{"c":3}}}`, true},
		{"unterminated", `{"a":{"b":1}`, `{"a":{"b":1}`, false},
		{"not at delimiter", `x{}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newScanner(tt.input)
			got, ok := sc.balanced('{', '}')
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("balanced = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScannerFork(t *testing.T) {
	sc := newScanner("abcdef")
	f := sc.fork()
	f.skip(3)
	if sc.pos != 0 {
		t.Errorf("fork moved parent cursor to %d", sc.pos)
	}
	if f.pos != 3 {
		t.Errorf("fork pos = %d, want 3", f.pos)
	}
}

func TestWriteBounded(t *testing.T) {
	doc := `{"success":true}`

	dst := make([]byte, 32)
	n, ok := WriteBounded(dst, doc)
	if !ok || n != len(doc) {
		t.Fatalf("WriteBounded = %d, %v", n, ok)
	}
	if string(dst[:n]) != doc {
		t.Errorf("dst = %q, want %q", dst[:n], doc)
	}

	// Exact fit still succeeds.
	exact := make([]byte, len(doc))
	if n, ok := WriteBounded(exact, doc); !ok || n != len(doc) {
		t.Errorf("exact fit = %d, %v", n, ok)
	}

	// Overflow leaves the destination untouched.
	small := []byte("unchanged")
	if n, ok := WriteBounded(small[:4], doc); ok || n != 0 {
		t.Errorf("overflow = %d, %v, want 0, false", n, ok)
	}
	if string(small) != "unchanged" {
		t.Errorf("overflow modified destination: %q", small)
	}
}
