package term

import (
	"testing"

	"mightemacs/internal/key"
)

func TestDecodeByteCtrl(t *testing.T) {
	got := decodeByte(0x18) // Ctrl-X
	want := key.Ctrl | 'X'
	if got != want {
		t.Fatalf("decodeByte(0x18) = %v, want %v", got, want)
	}
}

func TestDecodeByteCtrlSpace(t *testing.T) {
	got := decodeByte(0x00)
	want := key.Ctrl | ' '
	if got != want {
		t.Fatalf("decodeByte(0x00) = %v, want %v", got, want)
	}
}

func TestDecodeBytePrintable(t *testing.T) {
	if got := decodeByte('a'); got != key.ExtKey('a') {
		t.Fatalf("decodeByte('a') = %v, want %v", got, key.ExtKey('a'))
	}
}

func TestDispatchCSIArrow(t *testing.T) {
	got := dispatchCSI(nil, 'A')
	if got&key.FKey == 0 {
		t.Fatalf("arrow key should set FKey: %v", got)
	}
}

func TestDispatchCSITilde(t *testing.T) {
	got := dispatchCSI([]byte("3"), '~')
	want := fn(8) // Delete
	if got != want {
		t.Fatalf("CSI 3~ = %v, want %v (Delete)", got, want)
	}
}

func TestDispatchSS3FunctionKey(t *testing.T) {
	got := dispatchSS3('P')
	want := fn(11)
	if got != want {
		t.Fatalf("SS3 P = %v, want %v (F1)", got, want)
	}
}
