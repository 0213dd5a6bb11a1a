//go:build windows

package ntnative

import (
	"sync"

	"golang.org/x/sys/windows"
)

// procSet is the one-time-initialized table of resolved NT/Win32 entry
// points, held as a package-level value with explicit init semantics
// (design note in spec.md §9: no ad-hoc mutable function-pointer table).
type procSet struct {
	ntCreateDebugObject        *windows.LazyProc
	ntDebugActiveProcess       *windows.LazyProc
	ntRemoveProcessDebug       *windows.LazyProc
	ntDebugContinue            *windows.LazyProc
	ntWaitForDebugEvent        *windows.LazyProc
	ntQueryInformationThread   *windows.LazyProc
	ntQueryInformationProcess  *windows.LazyProc
	ntGetContextThread         *windows.LazyProc
	ntSetContextThread         *windows.LazyProc
	ntReadVirtualMemory        *windows.LazyProc
	ntWriteVirtualMemory       *windows.LazyProc
	ntQueryVirtualMemory       *windows.LazyProc
	ntProtectVirtualMemory     *windows.LazyProc
	ntTerminateProcess         *windows.LazyProc
	ntClose                    *windows.LazyProc
	ntResumeThread             *windows.LazyProc
	ntSuspendThread            *windows.LazyProc
}

var (
	procs     procSet
	procsOnce sync.Once
	procsErr  error
)

// load resolves every entry point this package uses. On the
// platform-unsupported error path it reports exactly which symbol could
// not be found.
func load() error {
	ntdll := windows.NewLazySystemDLL("ntdll.dll")

	entries := []struct {
		name string
		proc **windows.LazyProc
	}{
		{"NtCreateDebugObject", &procs.ntCreateDebugObject},
		{"NtDebugActiveProcess", &procs.ntDebugActiveProcess},
		{"NtRemoveProcessDebug", &procs.ntRemoveProcessDebug},
		{"NtDebugContinue", &procs.ntDebugContinue},
		{"NtWaitForDebugEvent", &procs.ntWaitForDebugEvent},
		{"NtQueryInformationThread", &procs.ntQueryInformationThread},
		{"NtQueryInformationProcess", &procs.ntQueryInformationProcess},
		{"NtGetContextThread", &procs.ntGetContextThread},
		{"NtSetContextThread", &procs.ntSetContextThread},
		{"NtReadVirtualMemory", &procs.ntReadVirtualMemory},
		{"NtWriteVirtualMemory", &procs.ntWriteVirtualMemory},
		{"NtQueryVirtualMemory", &procs.ntQueryVirtualMemory},
		{"NtProtectVirtualMemory", &procs.ntProtectVirtualMemory},
		{"NtTerminateProcess", &procs.ntTerminateProcess},
		{"NtClose", &procs.ntClose},
		{"NtResumeThread", &procs.ntResumeThread},
		{"NtSuspendThread", &procs.ntSuspendThread},
	}

	for _, e := range entries {
		p := ntdll.NewProc(e.name)
		if err := p.Find(); err != nil {
			return &ErrPlatformUnsupported{Missing: e.name}
		}
		*e.proc = p
	}
	return nil
}

// Init resolves every entry point this package needs. It is idempotent
// and safe to call from multiple goroutines; the first call's result is
// cached. Dispatcher construction calls this and fails outright
// (no partial operation mode) if it returns an error.
func Init() error {
	procsOnce.Do(func() {
		procsErr = load()
	})
	return procsErr
}
