package notation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantTok string
	}{
		{name: "ATR", input: "3B 65 00 FF", want: []byte{0x3B, 0x65, 0x00, 0xFF}},
		{name: "Lower case", input: "00 a4 04 00", want: []byte{0x00, 0xA4, 0x04, 0x00}},
		{name: "Extra whitespace", input: "  90\t00 ", want: []byte{0x90, 0x00}},
		{name: "Empty", input: "", want: []byte{}},
		{name: "Single digit", input: "00 A", wantTok: "A"},
		{name: "Three digits", input: "3B 650", wantTok: "650"},
		{name: "Not hex", input: "3B ZZ", wantTok: "ZZ"},
		{name: "Compact rejected", input: "3B65", wantTok: "3B65"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantTok != "" {
				var tokErr *TokenError
				if !errors.As(err, &tokErr) {
					t.Fatalf("ParseHex(%q) error = %v, want *TokenError", tt.input, err)
				}
				if tokErr.Token != tt.wantTok {
					t.Errorf("TokenError.Token = %q, want %q", tokErr.Token, tt.wantTok)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) unexpected error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseHex(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseHex_TokenIndex(t *testing.T) {
	_, err := ParseHex("00 A4 4 00")
	var tokErr *TokenError
	if !errors.As(err, &tokErr) {
		t.Fatalf("expected *TokenError, got %v", err)
	}
	if tokErr.Index != 2 {
		t.Errorf("Index = %d, want 2", tokErr.Index)
	}
}

func TestParseData(t *testing.T) {
	got, err := ParseData("3F00")
	if err != nil {
		t.Fatalf("ParseData compact: %v", err)
	}
	if diff := cmp.Diff([]byte{0x3F, 0x00}, got); diff != "" {
		t.Errorf("compact mismatch (-want +got):\n%s", diff)
	}

	got, err = ParseData("3F 00")
	if err != nil {
		t.Fatalf("ParseData spaced: %v", err)
	}
	if diff := cmp.Diff([]byte{0x3F, 0x00}, got); diff != "" {
		t.Errorf("spaced mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseData("3F0"); !errors.Is(err, ErrOddLength) {
		t.Errorf("ParseData(odd) error = %v, want ErrOddLength", err)
	}
}

func TestParseByte(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{"A4", 0xA4, false},
		{"0xa4", 0xA4, false},
		{"7", 0x07, false},
		{"100", 0, true},
		{"", 0, true},
		{"GG", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseByte(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseByte(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseByte(%q) = 0x%02X, want 0x%02X", tt.in, got, tt.want)
		}
	}
}

func TestFormatHex(t *testing.T) {
	if got := FormatHex([]byte{0x00, 0xC0, 0x00, 0x00, 0x05}); got != "00 C0 00 00 05" {
		t.Errorf("FormatHex = %q", got)
	}
	if got := FormatHex(nil); got != "" {
		t.Errorf("FormatHex(nil) = %q, want empty", got)
	}
}

func TestRoundTrip(t *testing.T) {
	in := "3B 8F 80 01 80 4F 0C A0"
	b, err := ParseHex(in)
	if err != nil {
		t.Fatal(err)
	}
	if out := FormatHex(b); out != in {
		t.Errorf("round trip = %q, want %q", out, in)
	}
}

func TestHex(t *testing.T) {
	got := Hex("00 A4", "04 00")
	if diff := cmp.Diff([]byte{0x00, 0xA4, 0x04, 0x00}, got); diff != "" {
		t.Errorf("Hex mismatch (-want +got):\n%s", diff)
	}

	defer func() {
		if recover() == nil {
			t.Error("Hex should panic on invalid input")
		}
	}()
	Hex("ZZ")
}
