package conv

import "testing"

func TestUtoaAndHex(t *testing.T) {
	var b [20]byte
	if got := string(Utoa(b[:], 0)); got != "0" {
		t.Fatalf("Utoa(0): %q", got)
	}
	if got := string(Utoa(b[:], 24_000_000)); got != "24000000" {
		t.Fatalf("Utoa: %q", got)
	}
	if got := string(Hex(b[:], 0x1A5, 4)); got != "01A5" {
		t.Fatalf("Hex: %q", got)
	}
	if got := string(AppendHex16([]byte("reg="), 0x0180)); got != "reg=0x0180" {
		t.Fatalf("AppendHex16: %q", got)
	}
}

func TestHz(t *testing.T) {
	cases := map[uint32]string{
		24_000_000: "24MHz",
		40_000:     "40kHz",
		32_768:     "32768Hz",
		1_048_576:  "1048576Hz",
	}
	for in, want := range cases {
		if got := Hz(in); got != want {
			t.Fatalf("Hz(%d): got %q want %q", in, got, want)
		}
	}
}
