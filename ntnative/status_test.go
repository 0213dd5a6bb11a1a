package ntnative

import (
	"strings"
	"testing"
)

func TestNTSTATUSSuccess(t *testing.T) {
	cases := []struct {
		status NTSTATUS
		want   bool
	}{
		{StatusSuccess, true},
		{StatusTimeout, true},        // success severity, high bit clear
		{StatusAlerted, true},        // success severity, high bit clear
		{StatusAccessViolation, false},
		{NTSTATUS(0x40000000), true}, // informational, high bit clear -> success
		{NTSTATUS(-1), false},        // 0xFFFFFFFF, high bit set -> error
	}
	for _, c := range cases {
		if got := c.status.Success(); got != c.want {
			t.Errorf("NTSTATUS(0x%08X).Success() = %v, want %v", uint32(c.status), got, c.want)
		}
	}
}

func TestStatusErrorMessageIncludesCallAndCode(t *testing.T) {
	err := newStatusError("NtTestCall", StatusAccessViolation)
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}
	if !strings.Contains(msg, "NtTestCall") {
		t.Errorf("error message %q does not name the call", msg)
	}
	if !strings.Contains(msg, "0xC0000005") {
		t.Errorf("error message %q does not include the status code", msg)
	}
}
