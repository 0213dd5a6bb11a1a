package debugger_test

import (
	"testing"

	"github.com/nativedbg/nativedbg/debugger"
	"github.com/nativedbg/nativedbg/exception"
)

func TestNoopHandlerDefaultDispositions(t *testing.T) {
	var h debugger.NoopHandler

	if got := h.OnException(nil, nil, &exception.Info{}, true); got != debugger.NotHandled {
		t.Errorf("OnException default: got %v, want NotHandled", got)
	}
	if got := h.OnBreakpoint(nil, nil); got != debugger.Handled {
		t.Errorf("OnBreakpoint default: got %v, want Handled", got)
	}
	if got := h.OnSingleStep(nil, nil); got != debugger.Continue {
		t.Errorf("OnSingleStep default: got %v, want Continue", got)
	}
}

// compile-time interface satisfaction check: a host embedding NoopHandler
// and overriding nothing still satisfies debugger.Handler.
type passthroughHandler struct {
	debugger.NoopHandler
}

var _ debugger.Handler = passthroughHandler{}
