package status

import "testing"

func TestUpgradeKeepsMoreSevere(t *testing.T) {
	s := New(Failure, "buffer is read-only")
	s = s.Upgrade(New(NotFound, "no match"))
	if s.Code != Failure {
		t.Errorf("Upgrade lowered severity: got %v", s.Code)
	}

	s = s.Upgrade(New(FatalError, "corrupt line list"))
	if s.Code != FatalError {
		t.Errorf("Upgrade did not raise severity: got %v", s.Code)
	}
}

func TestIsError(t *testing.T) {
	if OK.IsError() {
		t.Errorf("Success reported as error")
	}
	if New(NotFound, "").IsError() {
		t.Errorf("NotFound reported as error")
	}
	if New(UserAbort, "").IsError() {
		t.Errorf("UserAbort reported as error")
	}
	if !New(Failure, "").IsError() {
		t.Errorf("Failure not reported as error")
	}
}
