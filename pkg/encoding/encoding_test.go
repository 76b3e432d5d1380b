package encoding

import (
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(data)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{"utf-8", false},
		{"UTF8", false},
		{"windows-1252", false},
		{"euc-kr", false},
		{"shift_jis", false},
		{"klingon", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && enc == nil {
				t.Errorf("Lookup(%q) returned nil encoding", tt.name)
			}
		})
	}
}

func TestNewReaderWindows1252(t *testing.T) {
	enc, err := Lookup("windows-1252")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	// "g caf\xe9" is "g café" in Windows-1252
	got := readAll(t, NewReader(strings.NewReader("g caf\xe9\n"), enc))
	if got != "g café\n" {
		t.Errorf("got %q, want %q", got, "g café\n")
	}
}

func TestNewReaderEUCKR(t *testing.T) {
	enc, err := Lookup("euc-kr")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	// "\xc7\xd1" is the EUC-KR encoding of U+D55C
	got := readAll(t, NewReader(strings.NewReader("\xc7\xd1"), enc))
	if got != "한" {
		t.Errorf("got %q, want %q", got, "한")
	}
}

func TestNewReaderStripsBOM(t *testing.T) {
	got := readAll(t, NewReader(strings.NewReader("\xef\xbb\xbfmtllib a.mtl\n"), nil))
	if got != "mtllib a.mtl\n" {
		t.Errorf("got %q, want BOM removed", got)
	}
}
