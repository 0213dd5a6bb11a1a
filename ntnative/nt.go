//go:build windows

package ntnative

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func callNT(p *windows.LazyProc, a ...uintptr) NTSTATUS {
	r1, _, _ := p.Call(a...)
	return NTSTATUS(int32(r1))
}

// CreateDebugObject creates a new NT debug object with all access and
// without DEBUG_KILL_ON_CLOSE: closing the object detaches its debuggees
// and leaves them running.
func CreateDebugObject() (windows.Handle, error) {
	const debugObjectAllAccess = 0x1F000F
	var h windows.Handle
	var oa objectAttributes
	oa.Length = uint32(unsafe.Sizeof(oa))
	status := callNT(procs.ntCreateDebugObject,
		uintptr(unsafe.Pointer(&h)),
		uintptr(debugObjectAllAccess),
		uintptr(unsafe.Pointer(&oa)),
		0, // no DEBUG_KILL_ON_CLOSE: detach debuggee(s) on debug-object close
	)
	if !status.Success() {
		return 0, newStatusError("NtCreateDebugObject", status)
	}
	return h, nil
}

type objectAttributes struct {
	Length                   uint32
	RootDirectory            uintptr
	ObjectName               uintptr
	Attributes               uint32
	SecurityDescriptor       uintptr
	SecurityQualityOfService uintptr
}

// DebugActiveProcess attaches process to the given debug object.
func DebugActiveProcess(process windows.Handle, debugObject windows.Handle) error {
	status := callNT(procs.ntDebugActiveProcess, uintptr(process), uintptr(debugObject))
	if !status.Success() {
		return newStatusError("NtDebugActiveProcess", status)
	}
	return nil
}

// RemoveProcessDebug detaches process from the given debug object,
// letting it run free without being torn down.
func RemoveProcessDebug(process windows.Handle, debugObject windows.Handle) error {
	status := callNT(procs.ntRemoveProcessDebug, uintptr(process), uintptr(debugObject))
	if !status.Success() {
		return newStatusError("NtRemoveProcessDebug", status)
	}
	return nil
}

// DebugContinue acknowledges a delivered state-change, replying with
// continueStatus, keyed by the event's client id.
func DebugContinue(debugObject windows.Handle, client *ClientID, continueStatus NTSTATUS) error {
	status := callNT(procs.ntDebugContinue,
		uintptr(debugObject),
		uintptr(unsafe.Pointer(client)),
		uintptr(continueStatus))
	if !status.Success() {
		return newStatusError("NtDebugContinue", status)
	}
	return nil
}

// largeInteger mirrors LARGE_INTEGER's 64-bit on-disk layout.
type largeInteger int64

// WaitForDebugEvent blocks (alertably) for the next state change, up to
// timeoutMs (nil means infinite), retrying transparently on
// STATUS_ALERTED/STATUS_USER_APC per spec.md §4.7's event loop contract.
// Returns (false, nil) on STATUS_TIMEOUT.
func WaitForDebugEvent(debugObject windows.Handle, timeoutMs *uint32) (bool, *WaitStateChange, error) {
	var timeoutPtr uintptr
	var timeout largeInteger
	if timeoutMs != nil {
		// A negative value specifies an interval relative to the
		// current time, in 100-nanosecond units.
		timeout = largeInteger(-int64(*timeoutMs) * 10000)
		timeoutPtr = uintptr(unsafe.Pointer(&timeout))
	}

	var change WaitStateChange
	for {
		status := callNT(procs.ntWaitForDebugEvent,
			uintptr(debugObject),
			1, // Alertable = TRUE
			timeoutPtr,
			uintptr(unsafe.Pointer(&change)))

		switch status {
		case StatusAlerted, StatusUserAPC:
			continue
		case StatusTimeout:
			return false, nil, nil
		}
		if !status.Success() {
			return false, nil, newStatusError("NtWaitForDebugEvent", status)
		}
		return true, &change, nil
	}
}

// QueryThreadWin32StartAddress recovers a thread's real start address;
// used to patch the CreateProcess event's initial thread, whose start
// address is reported as zero (spec.md §4.7's CreateProcess quirk).
func QueryThreadWin32StartAddress(thread windows.Handle) (uint32, error) {
	var addr uint32
	status := callNT(procs.ntQueryInformationThread,
		uintptr(thread),
		uintptr(ThreadQuerySetWin32StartAddressClass),
		uintptr(unsafe.Pointer(&addr)),
		unsafe.Sizeof(addr),
		0)
	if !status.Success() {
		return 0, newStatusError("NtQueryInformationThread(Win32StartAddress)", status)
	}
	return addr, nil
}

// QueryThreadBasicInformation reads THREAD_BASIC_INFORMATION for thread.
func QueryThreadBasicInformation(thread windows.Handle) (ThreadBasicInformation, error) {
	var info ThreadBasicInformation
	status := callNT(procs.ntQueryInformationThread,
		uintptr(thread),
		uintptr(ThreadBasicInformationClass),
		uintptr(unsafe.Pointer(&info)),
		unsafe.Sizeof(info),
		0)
	if !status.Success() {
		return ThreadBasicInformation{}, newStatusError("NtQueryInformationThread(BasicInformation)", status)
	}
	return info, nil
}

// QueryProcessBasicInformation reads PROCESS_BASIC_INFORMATION for process.
func QueryProcessBasicInformation(process windows.Handle) (ProcessBasicInformation, error) {
	var info ProcessBasicInformation
	status := callNT(procs.ntQueryInformationProcess,
		uintptr(process),
		uintptr(ProcessBasicInformationClass),
		uintptr(unsafe.Pointer(&info)),
		unsafe.Sizeof(info),
		0)
	if !status.Success() {
		return ProcessBasicInformation{}, newStatusError("NtQueryInformationProcess", status)
	}
	return info, nil
}

// GetThreadContext reads thread's register file according to
// ctx.ContextFlags (the caller selects which register sets to fetch).
func GetThreadContext(thread windows.Handle, ctx *Context) error {
	status := callNT(procs.ntGetContextThread, uintptr(thread), uintptr(unsafe.Pointer(ctx)))
	if !status.Success() {
		return newStatusError("NtGetContextThread", status)
	}
	return nil
}

// SetThreadContext writes thread's register file according to
// ctx.ContextFlags.
func SetThreadContext(thread windows.Handle, ctx *Context) error {
	status := callNT(procs.ntSetContextThread, uintptr(thread), uintptr(unsafe.Pointer(ctx)))
	if !status.Success() {
		return newStatusError("NtSetContextThread", status)
	}
	return nil
}

// ReadVirtualMemory returns exactly the bytes actually transferred; it
// may be shorter than len(buf) at an inaccessible boundary.
func ReadVirtualMemory(process windows.Handle, addr uint32, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var read uint32
	status := callNT(procs.ntReadVirtualMemory,
		uintptr(process),
		uintptr(addr),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&read)))
	if !status.Success() {
		return int(read), newStatusError("NtReadVirtualMemory", status)
	}
	return int(read), nil
}

// WriteVirtualMemory returns the number of bytes accepted.
func WriteVirtualMemory(process windows.Handle, addr uint32, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	var written uint32
	status := callNT(procs.ntWriteVirtualMemory,
		uintptr(process),
		uintptr(addr),
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
		uintptr(unsafe.Pointer(&written)))
	if !status.Success() {
		return int(written), newStatusError("NtWriteVirtualMemory", status)
	}
	return int(written), nil
}

// QueryVirtualMemoryBasic returns the MEMORY_BASIC_INFORMATION region
// containing addr.
func QueryVirtualMemoryBasic(process windows.Handle, addr uint32) (MemoryBasicInformation, error) {
	var info MemoryBasicInformation
	status := callNT(procs.ntQueryVirtualMemory,
		uintptr(process),
		uintptr(addr),
		uintptr(MemoryBasicInformationClass),
		uintptr(unsafe.Pointer(&info)),
		unsafe.Sizeof(info),
		0)
	if !status.Success() {
		return MemoryBasicInformation{}, newStatusError("NtQueryVirtualMemory(Basic)", status)
	}
	return info, nil
}

// sectionNameBufferWords is sized generously for MAX_PATH-class names
// (mirrors _bones/process.c's `WCHAR __space[0x210]` overlay buffer).
const sectionNameBufferWords = 0x210

// unicodeString mirrors UNICODE_STRING's i386 layout (8 bytes).
type unicodeString struct {
	Length        uint16
	MaximumLength uint16
	Buffer        uint32
}

// QueryVirtualMemorySectionName returns the backing file path of the
// section mapped at addr.
func QueryVirtualMemorySectionName(process windows.Handle, addr uint32) (string, error) {
	var buf [sectionNameBufferWords]uint16
	status := callNT(procs.ntQueryVirtualMemory,
		uintptr(process),
		uintptr(addr),
		uintptr(MemorySectionNameClass),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)*2),
		0)
	if !status.Success() {
		return "", newStatusError("NtQueryVirtualMemory(SectionName)", status)
	}
	us := (*unicodeString)(unsafe.Pointer(&buf[0]))
	chars := us.Length / 2
	// The UNICODE_STRING header occupies the front of the same buffer
	// it points into; the characters begin right after it.
	headerWords := uintptr(unsafe.Sizeof(*us)) / 2
	return windows.UTF16ToString(buf[headerWords : headerWords+uintptr(chars)]), nil
}

// ProtectVirtualMemory changes protection over [addr, addr+size) to
// newProtect, returning the previous value.
func ProtectVirtualMemory(process windows.Handle, addr uint32, size uint32, newProtect uint32) (uint32, error) {
	regionBase := addr
	regionSize := size
	var oldProtect uint32
	status := callNT(procs.ntProtectVirtualMemory,
		uintptr(process),
		uintptr(unsafe.Pointer(&regionBase)),
		uintptr(unsafe.Pointer(&regionSize)),
		uintptr(newProtect),
		uintptr(unsafe.Pointer(&oldProtect)))
	if !status.Success() {
		return 0, newStatusError("NtProtectVirtualMemory", status)
	}
	return oldProtect, nil
}

// TerminateProcess starts termination of process with the given exit code.
func TerminateProcess(process windows.Handle, exitCode uint32) error {
	status := callNT(procs.ntTerminateProcess, uintptr(process), uintptr(exitCode))
	if !status.Success() {
		return newStatusError("NtTerminateProcess", status)
	}
	return nil
}

// Close closes a native handle. Every handle held by an entity in this
// engine is closed exactly once, on that entity's destruction
// (spec.md §3 invariant i).
func Close(h windows.Handle) error {
	status := callNT(procs.ntClose, uintptr(h))
	if !status.Success() {
		return newStatusError("NtClose", status)
	}
	return nil
}

// ResumeThread resumes thread, returning its previous suspend count.
func ResumeThread(thread windows.Handle) (uint32, error) {
	var prevCount uint32
	status := callNT(procs.ntResumeThread, uintptr(thread), uintptr(unsafe.Pointer(&prevCount)))
	if !status.Success() {
		return 0, newStatusError("NtResumeThread", status)
	}
	return prevCount, nil
}

// SuspendThread suspends thread, returning its previous suspend count.
func SuspendThread(thread windows.Handle) (uint32, error) {
	var prevCount uint32
	status := callNT(procs.ntSuspendThread, uintptr(thread), uintptr(unsafe.Pointer(&prevCount)))
	if !status.Success() {
		return 0, newStatusError("NtSuspendThread", status)
	}
	return prevCount, nil
}

// CreateSuspendedProcess spawns commandLine suspended, with a fresh
// console and default error mode, the way _bones/debugger.c's spawn()
// does via Win32 CreateProcessA. The caller is responsible for
// attaching it to a debug object and resuming its initial thread.
func CreateSuspendedProcess(commandLine string) (windows.Handle, windows.Handle, uint32, error) {
	const (
		createSuspended        = 0x00000004
		createDefaultErrorMode = 0x04000000
		createNewConsole       = 0x00000010
	)

	cmdLine, err := windows.UTF16PtrFromString(commandLine)
	if err != nil {
		return 0, 0, 0, newWin32Error("UTF16PtrFromString", uint32(0))
	}

	var si windows.StartupInfo
	si.Cb = uint32(unsafe.Sizeof(si))
	var pi windows.ProcessInformation

	err = windows.CreateProcess(
		nil,
		cmdLine,
		nil,
		nil,
		false,
		createSuspended|createDefaultErrorMode|createNewConsole,
		nil,
		nil,
		&si,
		&pi,
	)
	if err != nil {
		var code uint32
		if errno, ok := err.(windows.Errno); ok {
			code = uint32(errno)
		}
		return 0, 0, 0, newWin32Error("CreateProcess", code)
	}
	return pi.Process, pi.Thread, pi.ProcessId, nil
}
