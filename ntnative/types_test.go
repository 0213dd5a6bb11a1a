package ntnative

import (
	"testing"
	"unsafe"
)

func TestDbgStateString(t *testing.T) {
	cases := map[DbgState]string{
		DbgIdle:                    "Idle",
		DbgCreateProcessStateChange: "CreateProcess",
		DbgExceptionStateChange:    "Exception",
		DbgLoadDllStateChange:      "LoadDll",
		DbgState(0xFFFF):           "Unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("DbgState(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestWaitStateChangeCreateThreadDecoding(t *testing.T) {
	var wsc WaitStateChange
	wsc.NewState = DbgCreateThreadStateChange
	type raw struct {
		HandleToThread uint32
		SubSystemKey   uint32
		StartAddress   uint32
	}
	r := (*raw)(unsafe.Pointer(&wsc.stateInfo[0]))
	r.HandleToThread = 0x100
	r.SubSystemKey = 1
	r.StartAddress = 0x401000

	got := wsc.CreateThread()
	if got.HandleToThread != 0x100 || got.StartAddress != 0x401000 {
		t.Fatalf("decoded CreateThreadInfo mismatch: %+v", got)
	}
}
