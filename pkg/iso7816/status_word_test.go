package iso7816

import (
	"strings"
	"testing"

	"github.com/gregLibert/scprobe/pkg/catalog"
)

func TestStatusWord_Triggering(t *testing.T) {
	tests := []struct {
		sw     StatusWord
		isTrig bool
	}{
		{NewStatusWord(0x62, 0x02), true},  // Lower bound
		{NewStatusWord(0x62, 0x80), true},  // Upper bound
		{NewStatusWord(0x64, 0x10), true},  // Error triggering
		{NewStatusWord(0x62, 0x01), false}, // Invalid (< 02)
		{NewStatusWord(0x62, 0x81), false}, // Invalid (> 80)
	}

	for _, tt := range tests {
		if got := tt.sw.IsTriggeringByCard(); got != tt.isTrig {
			t.Errorf("SW %X IsTriggeringByCard = %v, want %v", uint16(tt.sw), got, tt.isTrig)
		}
	}
}

func TestStatusWord_Counter(t *testing.T) {
	tests := []struct {
		sw        StatusWord
		isCounter bool
	}{
		{NewStatusWord(0x63, 0xC0), true},
		{NewStatusWord(0x63, 0xCF), true},
		{NewStatusWord(0x63, 0x00), false},
		{NewStatusWord(0x63, 0x81), false},
	}

	for _, tt := range tests {
		if got := tt.sw.IsCounter(); got != tt.isCounter {
			t.Errorf("SW %X IsCounter = %v, want %v", uint16(tt.sw), got, tt.isCounter)
		}
	}
}

func TestStatusWord_Classify(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		sw   StatusWord
		want Category
	}{
		{SW_NO_ERROR, CategorySuccess},
		{NewStatusWord(0x61, 0x10), CategoryMoreData},
		{NewStatusWord(0x61, 0x00), CategoryMoreData},
		{SW_WARN_EOF_REACHED, CategoryWarning},
		{NewStatusWord(0x62, 0xF1), CategoryWarning},
		{SW_ERR_FILE_NOT_FOUND, CategoryError},
		{SW_ERR_CLA_NOT_SUPPORTED, CategoryError},
		{NewStatusWord(0x6C, 0x10), CategoryUnknown}, // wrong length is not handled
		{NewStatusWord(0x90, 0x01), CategoryUnknown},
		{NewStatusWord(0x12, 0x34), CategoryUnknown},
	}

	for _, tt := range tests {
		if got := tt.sw.Classify(cat); got != tt.want {
			t.Errorf("SW %04X Classify = %s, want %s", uint16(tt.sw), got, tt.want)
		}
	}

	if got := SW_ERR_FILE_NOT_FOUND.Classify(nil); got != CategoryUnknown {
		t.Errorf("Classify(nil catalog) = %s, want Unknown", got)
	}
}

func TestStatusWord_Flags(t *testing.T) {
	tests := []struct {
		sw        StatusWord
		isSuccess bool
		isWarning bool
		isError   bool
	}{
		{SW_NO_ERROR, true, false, false},
		{NewStatusWord(0x61, 0x10), true, false, false},
		{SW_WARN_EOF_REACHED, false, true, false},
		{NewStatusWord(0x63, 0xC2), false, true, false},
		{SW_ERR_WRONG_LENGTH, false, false, true},
		{SW_ERR_FILE_NOT_FOUND, false, false, true},
	}

	for _, tt := range tests {
		if got := tt.sw.IsSuccess(); got != tt.isSuccess {
			t.Errorf("SW %X IsSuccess = %v, want %v", uint16(tt.sw), got, tt.isSuccess)
		}
		if got := tt.sw.IsWarning(); got != tt.isWarning {
			t.Errorf("SW %X IsWarning = %v, want %v", uint16(tt.sw), got, tt.isWarning)
		}
		if got := tt.sw.IsError(); got != tt.isError {
			t.Errorf("SW %X IsError = %v, want %v", uint16(tt.sw), got, tt.isError)
		}
	}
}

func TestStatusWord_Verbose(t *testing.T) {
	tests := []struct {
		sw       StatusWord
		contains string
	}{
		{NewStatusWord(0x62, 0x10), "Card expects query of 16 bytes"},
		{NewStatusWord(0x63, 0xC3), "counter = 3"},
		{NewStatusWord(0x61, 0x20), "32 bytes available"},
		{NewStatusWord(0x6C, 0x05), "correct Le is 5"},
		{SW_WARN_TRIGGERING_BY_CARD, "Card expects query of 2 bytes"},
		{SW_ERR_FILE_NOT_FOUND, "[6A82] File or application not found"},
		{NewStatusWord(0x6A, 0x99), "[6A99] Checking Error: Wrong parameters"},
		{NewStatusWord(0x12, 0x34), "Unknown Status"},
	}

	for _, tt := range tests {
		got := tt.sw.Verbose()
		if !strings.Contains(got, tt.contains) {
			t.Errorf("Verbose(%04X) = %q; want containing %q", uint16(tt.sw), got, tt.contains)
		}
	}
}

func TestStatusWord_VerboseWithCustomCatalog(t *testing.T) {
	cat := catalog.New(nil, map[uint16]string{0x9F10: "Proprietary"})
	if got := NewStatusWord(0x9F, 0x10).VerboseWith(cat); got != "[9F10] Proprietary" {
		t.Errorf("VerboseWith = %q", got)
	}
}
