package debugger

import (
	"testing"

	"github.com/nativedbg/nativedbg/ntnative"
)

func TestContinuationStatusMapping(t *testing.T) {
	cases := []struct {
		disposition ExceptionDisposition
		want        ntnative.NTSTATUS
	}{
		{Handled, ntnative.DbgExceptionHandled},
		{Continue, ntnative.DbgContinue},
		{NotHandled, ntnative.DbgExceptionNotHandled},
		{TerminateThread, ntnative.DbgTerminateThread},
		{TerminateProcess, ntnative.DbgTerminateProcess},
	}

	for _, c := range cases {
		if got := c.disposition.continuationStatus(); got != c.want {
			t.Errorf("disposition %v: got 0x%08X, want 0x%08X", c.disposition, uint32(got), uint32(c.want))
		}
	}
}
