package utils

import "testing"

func TestFormatGPSPair(t *testing.T) {
	if got := FormatGPSPair(1264312000, 1264312010); got != "1264312000,1264312010" {
		t.Fatalf("FormatGPSPair = %q", got)
	}
	// Fractional bounds truncate to whole seconds.
	if got := FormatGPSPair(1000.75, 1010.25); got != "1000,1010" {
		t.Fatalf("FormatGPSPair = %q", got)
	}
}

func TestParseGPSPair(t *testing.T) {
	start, end, err := ParseGPSPair("1264312000,1264312010")
	if err != nil {
		t.Fatalf("ParseGPSPair returned error: %v", err)
	}
	if start != 1264312000 || end != 1264312010 {
		t.Fatalf("pair = %d,%d", start, end)
	}

	start, end, err = ParseGPSPair(" 1000 , 1010 ")
	if err != nil {
		t.Fatalf("ParseGPSPair with spaces returned error: %v", err)
	}
	if start != 1000 || end != 1010 {
		t.Fatalf("pair = %d,%d", start, end)
	}
}

func TestParseGPSPairRejectsMalformed(t *testing.T) {
	for _, value := range []string{"", "1000", "1000,1010,1020", "a,b", "1000,"} {
		if _, _, err := ParseGPSPair(value); err == nil {
			t.Fatalf("ParseGPSPair(%q) returned nil, want error", value)
		}
	}
}
