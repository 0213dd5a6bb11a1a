// Package ntnative is a thin typed facade over the NT native calls the
// debug engine needs: debug-object create/wait/continue/attach/remove,
// process and thread information query, virtual memory read/write/query/
// protect, and section-name query.
//
// Every entry point is resolved by name from ntdll.dll/kernel32.dll at
// first use (see init.go); nothing here talks to the Win32
// DebugActiveProcess/WaitForDebugEvent path.
package ntnative

import (
	"fmt"
	"runtime"
)

// NTSTATUS is the native 32-bit status code returned by Nt*/Zw* calls.
// It is kept as its own type, distinct from a Win32 error code, so the
// two error taxonomies in spec §7 never get confused at the type level.
type NTSTATUS int32

// Success reports whether status represents success. Per the NT calling
// convention, a non-negative status is success (including "information"
// statuses); a negative status is an error or warning.
func (s NTSTATUS) Success() bool {
	return s >= 0
}

const (
	StatusSuccess         NTSTATUS = 0x00000000
	StatusTimeout         NTSTATUS = 0x00000102
	StatusAlerted         NTSTATUS = 0x00000101
	StatusUserAPC         NTSTATUS = 0x000000C0
	StatusAccessViolation NTSTATUS = -1073741819 // 0xC0000005
	StatusNoMoreEntries   NTSTATUS = -2147483622 // 0x8000001A (warning severity: no more entries)
)

// origin captures a short file:line string at the caller of the
// exported wrapper that failed, the way delve's ptrace error paths do.
func origin(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// StatusError wraps a failing NTSTATUS from a native call. It is
// non-recoverable at the call site and is expected to propagate to the
// host unchanged.
type StatusError struct {
	Call   string
	Status NTSTATUS
	Origin string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: NTSTATUS 0x%08X (at %s)", e.Call, uint32(e.Status), e.Origin)
}

func newStatusError(call string, status NTSTATUS) *StatusError {
	return &StatusError{Call: call, Status: status, Origin: origin(2)}
}

// Win32Error wraps a failing Win32 last-error code. Process creation is
// the main source of these: everything else in this package goes
// through the native Nt*/Zw* surface and fails with an NTSTATUS instead.
type Win32Error struct {
	Call   string
	Code   uint32
	Origin string
}

func (e *Win32Error) Error() string {
	return fmt.Sprintf("%s: Win32 error %d (at %s)", e.Call, e.Code, e.Origin)
}

func newWin32Error(call string, code uint32) *Win32Error {
	return &Win32Error{Call: call, Code: code, Origin: origin(2)}
}

// ErrPlatformUnsupported is returned from Init when a required entry
// point could not be resolved. There is no partial operation mode: the
// dispatcher construction fails outright.
type ErrPlatformUnsupported struct {
	Missing string
}

func (e *ErrPlatformUnsupported) Error() string {
	return fmt.Sprintf("ntnative: platform unsupported: could not resolve %q", e.Missing)
}
