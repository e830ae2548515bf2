package scard

import "testing"

func TestSymbolKnown(t *testing.T) {
	got := Symbol(Scopes, 0x0002)
	want := "SCARD_SCOPE_SYSTEM (0x00000002)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSymbolUnknown(t *testing.T) {
	got := Symbol(Scopes, 0xDEAD)
	want := "UNKNOWN (0x0000DEAD)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBitmaskJoin(t *testing.T) {
	got := Bitmask(Protocols, 0x0003, "")
	want := "SCARD_PROTOCOL_T0,SCARD_PROTOCOL_T1 (0x00000003)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBitmaskZeroName(t *testing.T) {
	got := Bitmask(ReaderStates, 0, ReaderStateZero)
	want := "SCARD_STATE_UNAWARE (0x00000000)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBitmaskNoMember(t *testing.T) {
	got := Bitmask(Protocols, 0x1000, "")
	want := "UNKNOWN (0x00001000)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReturnCodes(t *testing.T) {
	tests := []struct {
		code uint32
		want string
	}{
		{0x00000000, "SCARD_S_SUCCESS"},
		{0x80100002, "SCARD_E_CANCELLED"},
		{0x8010000B, "SCARD_E_SHARING_VIOLATION"},
		{0x80100069, "SCARD_W_REMOVED_CARD"},
	}
	for _, tt := range tests {
		if got := ReturnCodes[tt.code]; got != tt.want {
			t.Fatalf("code 0x%08X: got %q, want %q", tt.code, got, tt.want)
		}
	}
	if _, ok := ReturnCodes[0xDEADBEEF]; ok {
		t.Fatal("0xDEADBEEF should not be in the return code table")
	}
}

func TestValue(t *testing.T) {
	if got, want := Value(1000), "0x000003E8 (1000)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
