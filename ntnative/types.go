package ntnative

import "unsafe"

// CLIENT_ID is the (process, thread) pair the kernel uses to route a
// debug-continue reply to the correct target. Handles here are 32-bit:
// this engine's CPU-context model is explicitly 32-bit x86, and the
// debugger is expected to run as a 32-bit process attached to 32-bit
// targets (see spec.md §1 Non-goals).
type ClientID struct {
	UniqueProcess uint32 // HANDLE
	UniqueThread  uint32 // HANDLE
}

// DbgState enumerates the DBGUI_WAIT_STATE_CHANGE "NewState" kinds
// delivered by NtWaitForDebugEvent, ref dbgui.h's DBG_STATE.
type DbgState uint32

const (
	DbgIdle DbgState = iota
	DbgReplyPending
	DbgCreateThreadStateChange
	DbgCreateProcessStateChange
	DbgExitThreadStateChange
	DbgExitProcessStateChange
	DbgExceptionStateChange
	DbgBreakpointStateChange
	DbgSingleStepStateChange
	DbgLoadDllStateChange
	DbgUnloadDllStateChange
)

func (s DbgState) String() string {
	switch s {
	case DbgIdle:
		return "Idle"
	case DbgReplyPending:
		return "ReplyPending"
	case DbgCreateThreadStateChange:
		return "CreateThread"
	case DbgCreateProcessStateChange:
		return "CreateProcess"
	case DbgExitThreadStateChange:
		return "ExitThread"
	case DbgExitProcessStateChange:
		return "ExitProcess"
	case DbgExceptionStateChange:
		return "Exception"
	case DbgBreakpointStateChange:
		return "Breakpoint"
	case DbgSingleStepStateChange:
		return "SingleStep"
	case DbgLoadDllStateChange:
		return "LoadDll"
	case DbgUnloadDllStateChange:
		return "UnloadDll"
	default:
		return "Unknown"
	}
}

// Continuation statuses passed to NtDebugContinue (spec.md §6).
const (
	DbgExceptionHandled    NTSTATUS = 0x00010001
	DbgContinue            NTSTATUS = 0x00010002
	DbgExceptionNotHandled NTSTATUS = -2147418111 // 0x80010001
	DbgTerminateThread     NTSTATUS = 1073807363   // 0x40010003
	DbgTerminateProcess    NTSTATUS = 1073807364   // 0x40010004
)

const exceptionMaximumParameters = 15

// ExceptionRecord mirrors EXCEPTION_RECORD for a 32-bit target: a
// possibly-chained description of a hardware or software exception.
type ExceptionRecord struct {
	ExceptionCode        uint32
	ExceptionFlags       uint32
	ExceptionRecordPtr   uint32 // pointer to the next EXCEPTION_RECORD in the chain, or 0
	ExceptionAddress     uint32
	NumberParameters     uint32
	ExceptionInformation [exceptionMaximumParameters]uint32
}

type dbgkmCreateThread struct {
	SubSystemKey uint32
	StartAddress uint32
}

type dbgkmCreateProcess struct {
	SubSystemKey        uint32
	FileHandle          uint32
	BaseOfImage         uint32
	DebugInfoFileOffset uint32
	DebugInfoSize       uint32
	InitialThread       dbgkmCreateThread
}

// CreateThreadInfo is the decoded CreateThread union arm.
type CreateThreadInfo struct {
	HandleToThread uint32
	SubSystemKey   uint32
	StartAddress   uint32
}

// CreateProcessInfo is the decoded CreateProcessInfo union arm.
type CreateProcessInfo struct {
	HandleToProcess     uint32
	HandleToThread      uint32
	SubSystemKey        uint32
	FileHandle          uint32
	BaseOfImage         uint32
	DebugInfoFileOffset uint32
	DebugInfoSize       uint32
	InitialThreadStart  uint32
}

// ExitInfo is the decoded ExitThread/ExitProcess union arm; both carry
// only an exit status.
type ExitInfo struct {
	ExitStatus NTSTATUS
}

// ExceptionEventInfo is the decoded Exception union arm.
type ExceptionEventInfo struct {
	Record      ExceptionRecord
	FirstChance uint32
}

// LoadDllInfo is the decoded LoadDll union arm.
type LoadDllInfo struct {
	File                uint32
	BaseOfDll            uint32
	DebugInfoFileOffset uint32
	DebugInfoSize       uint32
	NamePointer         uint32
}

// UnloadDllInfo is the decoded UnloadDll union arm.
type UnloadDllInfo struct {
	BaseAddress uint32
}

// unionSize is sized to the largest arm (Exception: 80 bytes of
// ExceptionRecord + 4 bytes FirstChance = 84).
const unionSize = 84

// WaitStateChange is DBGUI_WAIT_STATE_CHANGE: a single delivery from the
// debug object. The StateInfo union is kept as a raw byte array and
// decoded on demand by the accessor matching NewState, mirroring the C
// union without requiring unsafe casts to leak outside this package.
type WaitStateChange struct {
	NewState    DbgState
	AppClientID ClientID
	stateInfo   [unionSize]byte
}

func (w *WaitStateChange) CreateThread() CreateThreadInfo {
	type raw struct {
		HandleToThread uint32
		dbgkmCreateThread
	}
	r := (*raw)(unsafe.Pointer(&w.stateInfo[0]))
	return CreateThreadInfo{
		HandleToThread: r.HandleToThread,
		SubSystemKey:   r.SubSystemKey,
		StartAddress:   r.StartAddress,
	}
}

func (w *WaitStateChange) CreateProcess() CreateProcessInfo {
	type raw struct {
		HandleToProcess uint32
		HandleToThread  uint32
		dbgkmCreateProcess
	}
	r := (*raw)(unsafe.Pointer(&w.stateInfo[0]))
	return CreateProcessInfo{
		HandleToProcess:     r.HandleToProcess,
		HandleToThread:      r.HandleToThread,
		SubSystemKey:        r.SubSystemKey,
		FileHandle:          r.FileHandle,
		BaseOfImage:         r.BaseOfImage,
		DebugInfoFileOffset: r.DebugInfoFileOffset,
		DebugInfoSize:       r.DebugInfoSize,
		InitialThreadStart:  r.InitialThread.StartAddress,
	}
}

func (w *WaitStateChange) ExitThread() ExitInfo {
	return *(*ExitInfo)(unsafe.Pointer(&w.stateInfo[0]))
}

func (w *WaitStateChange) ExitProcess() ExitInfo {
	return *(*ExitInfo)(unsafe.Pointer(&w.stateInfo[0]))
}

func (w *WaitStateChange) Exception() ExceptionEventInfo {
	return *(*ExceptionEventInfo)(unsafe.Pointer(&w.stateInfo[0]))
}

func (w *WaitStateChange) LoadDll() LoadDllInfo {
	return *(*LoadDllInfo)(unsafe.Pointer(&w.stateInfo[0]))
}

func (w *WaitStateChange) UnloadDll() UnloadDllInfo {
	return *(*UnloadDllInfo)(unsafe.Pointer(&w.stateInfo[0]))
}

// THREAD_BASIC_INFORMATION (NtQueryInformationThread,
// ThreadBasicInformation).
type ThreadBasicInformation struct {
	ExitStatus     NTSTATUS
	TebBaseAddress uint32
	ClientID       ClientID
	AffinityMask   uint32
	Priority       int32
	BasePriority   int32
}

// NtQueryInformationThread info classes; ThreadQuerySetWin32StartAddressClass
// is the one used to recover the initial thread's real start address.
const (
	ThreadBasicInformationClass          = 0
	ThreadQuerySetWin32StartAddressClass = 9
)

// PROCESS_BASIC_INFORMATION (NtQueryInformationProcess,
// ProcessBasicInformation) -- only the fields this engine reads.
type ProcessBasicInformation struct {
	ExitStatus                   NTSTATUS
	PebBaseAddress                uint32
	AffinityMask                 uint32
	BasePriority                  int32
	UniqueProcessID               uint32
	InheritedFromUniqueProcessID uint32
}

const ProcessBasicInformationClass = 0

// Memory state/type/protect constants (MEMORY_BASIC_INFORMATION).
const (
	MemCommit  = 0x1000
	MemReserve = 0x2000
	MemFree    = 0x10000

	MemPrivate = 0x20000
	MemMapped  = 0x40000
	MemImage   = 0x1000000
)

// Page protection constants exposed on target.Process per spec.md §6.
const (
	PageNoAccess          = 0x01
	PageReadOnly          = 0x02
	PageReadWrite         = 0x04
	PageWriteCopy         = 0x08
	PageExecute           = 0x10
	PageExecuteRead       = 0x20
	PageExecuteReadWrite  = 0x40
	PageExecuteWriteCopy  = 0x80
	PageGuard             = 0x100
	PageNoCache           = 0x200
	PageWriteCombine      = 0x400
)

// MemoryBasicInformation (MEMORY_BASIC_INFORMATION, 32-bit layout).
type MemoryBasicInformation struct {
	BaseAddress       uint32
	AllocationBase    uint32
	AllocationProtect uint32
	RegionSize        uint32
	State             uint32
	Protect           uint32
	Type              uint32
}

// MemoryInformationClass selects the NtQueryVirtualMemory info class.
type MemoryInformationClass uint32

const (
	MemoryBasicInformationClass MemoryInformationClass = 0
	MemorySectionNameClass      MemoryInformationClass = 2
)

// ImageDosHeaderLfanewOffset is the offset of IMAGE_DOS_HEADER.e_lfanew,
// the 4-byte pointer (relative to the module base) to IMAGE_NT_HEADERS32.
const ImageDosHeaderLfanewOffset = 0x3C

// ImageFileHeader is IMAGE_FILE_HEADER.
type ImageFileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

// ImageOptionalHeader32 is the prefix of IMAGE_OPTIONAL_HEADER32 this
// engine needs: just enough to reach AddressOfEntryPoint.
type ImageOptionalHeader32 struct {
	Magic                   uint16
	MajorLinkerVersion      uint8
	MinorLinkerVersion      uint8
	SizeOfCode              uint32
	SizeOfInitializedData   uint32
	SizeOfUninitializedData uint32
	AddressOfEntryPoint     uint32
}

// ImageNtHeaders32 is IMAGE_NT_HEADERS32, read from
// base+e_lfanew (module/entry-point resolution, target/module.go).
type ImageNtHeaders32 struct {
	Signature      uint32
	FileHeader     ImageFileHeader
	OptionalHeader ImageOptionalHeader32
}
