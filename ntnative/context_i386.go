package ntnative

// CONTEXT flags (i386). Only CONTROL/INTEGER/SEGMENTS/DEBUG_REGISTERS are
// used by this engine; Context has room for the floating point and
// extended registers, but cpucontext neither fetches nor interprets them,
// per spec.md §1 (no FPU/SSE model).
const (
	ContextI386             = 0x00010000
	ContextControl          = ContextI386 | 0x00000001
	ContextInteger          = ContextI386 | 0x00000002
	ContextSegments         = ContextI386 | 0x00000004
	ContextFloatingPoint    = ContextI386 | 0x00000008
	ContextDebugRegisters   = ContextI386 | 0x00000010
	ContextExtendedRegisters = ContextI386 | 0x00000020

	ContextFull = ContextControl | ContextInteger | ContextSegments
	ContextAll  = ContextFull | ContextFloatingPoint | ContextDebugRegisters | ContextExtendedRegisters
)

// sizeOfFloatState mirrors FLOATING_SAVE_AREA's on-disk size for i386.
const sizeOfFloatState = 112

// FloatingSaveArea is FLOATING_SAVE_AREA (i386), carried verbatim; this
// engine exposes no FPU register accessors (spec.md §4.3 only names the
// integer/control/segment/debug register set).
type FloatingSaveArea struct {
	ControlWord   uint32
	StatusWord    uint32
	TagWord       uint32
	ErrorOffset   uint32
	ErrorSelector uint32
	DataOffset    uint32
	DataSelector  uint32
	RegisterArea  [80]byte
	Cr0NpxState   uint32
}

// Context is the i386 CONTEXT structure: the full register file a
// thread's kernel context carries. Field order and sizes match
// winnt.h's 32-bit CONTEXT exactly so GetThreadContext/SetThreadContext
// can read and write it directly.
type Context struct {
	ContextFlags uint32

	Dr0 uint32
	Dr1 uint32
	Dr2 uint32
	Dr3 uint32
	Dr6 uint32
	Dr7 uint32

	FloatSave FloatingSaveArea

	SegGs uint32
	SegFs uint32
	SegEs uint32
	SegDs uint32

	Edi uint32
	Esi uint32
	Ebx uint32
	Edx uint32
	Ecx uint32
	Eax uint32

	Ebp    uint32
	Eip    uint32
	SegCs  uint32
	EFlags uint32
	Esp    uint32
	SegSs  uint32

	ExtendedRegisters [512]byte
}
