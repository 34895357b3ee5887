package session

import (
	"testing"

	"mightemacs/internal/status"
)

func TestNewSessionHasScratchBuffer(t *testing.T) {
	s := New(24, 80)
	if _, ok := s.Buffers["scratch"]; !ok {
		t.Fatal("expected a scratch buffer")
	}
	if s.Current == nil || s.Current.Current().Buf.Name != "scratch" {
		t.Fatal("current screen's current window should show scratch")
	}
}

func TestCreateBufferRejectsDuplicate(t *testing.T) {
	s := New(24, 80)
	if _, st := s.CreateBuffer("foo"); st.IsError() {
		t.Fatalf("CreateBuffer: %v", st)
	}
	if _, st := s.CreateBuffer("foo"); !st.IsError() {
		t.Fatal("expected error creating duplicate buffer name")
	}
}

func TestSetStatusUpgradesMonotonically(t *testing.T) {
	s := New(24, 80)
	s.SetStatus(status.New(status.Failure, "oops"))
	s.SetStatus(status.OK)
	if s.Status.Code != status.Failure {
		t.Fatalf("status downgraded to %v, want Failure retained", s.Status.Code)
	}
	if s.ReturnMsg != "oops" {
		t.Fatalf("ReturnMsg = %q, want %q", s.ReturnMsg, "oops")
	}
}
