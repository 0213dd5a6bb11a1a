// Package exception translates the kernel EXCEPTION_RECORD delivered by
// the native debug subsystem into the information spec.md §4.4 names:
// a chain of ExceptionInfo values, with STATUS_ACCESS_VIOLATION records
// specialized into AccessViolationInfo. Grounded on the original
// debugger's _PyBones_ExceptionInfo_Translate (_bones/exinfo.c).
package exception

import (
	"fmt"
	"unsafe"

	"github.com/nativedbg/nativedbg/ntnative"
)

// Access type values carried in ExceptionInformation[0] of an access
// violation record.
const (
	accessRead    = 0
	accessWrite   = 1
	accessExecute = 8
)

// Reader follows an EXCEPTION_RECORD chain through a remote process's
// memory. target.Process satisfies this with its Read method.
type Reader interface {
	Read(address uint32, size int) ([]byte, error)
}

// Info describes one exception in a chain: which code, where it fired,
// and whether continuing from it is possible at all (independent of
// whether the debugger will actually continue it).
type Info struct {
	Code            uint32
	Address         uint32
	Noncontinuable  bool
	Parameters      []uint32
	Nested          *Info
	AccessViolation *AccessViolationInfo
}

// AccessViolationInfo specializes Info when Code is
// STATUS_ACCESS_VIOLATION, decoding ExceptionInformation into the
// faulting access kind and address.
type AccessViolationInfo struct {
	AccessType  string // "read", "write", or "execute"
	DataAddress uint32
}

// Translate decodes record, and recursively its ExceptionRecordPtr
// chain, into an Info tree. depth guards against a corrupt or
// cyclic chain; the original C implementation recurses unbounded, but a
// foreign process's memory is not trustworthy input.
func Translate(record ntnative.ExceptionRecord, reader Reader) (*Info, error) {
	return translate(record, reader, 0)
}

const maxChainDepth = 32

func translate(record ntnative.ExceptionRecord, reader Reader, depth int) (*Info, error) {
	if depth >= maxChainDepth {
		return nil, fmt.Errorf("exception: chain exceeds %d records, likely corrupt", maxChainDepth)
	}

	info := &Info{
		Code:           record.ExceptionCode,
		Address:        record.ExceptionAddress,
		Noncontinuable: record.ExceptionFlags != 0,
		Parameters:     append([]uint32(nil), record.ExceptionInformation[:record.NumberParameters]...),
	}

	if record.ExceptionRecordPtr != 0 {
		nested, err := readNestedRecord(record.ExceptionRecordPtr, reader)
		if err != nil {
			return nil, err
		}
		nestedInfo, err := translate(*nested, reader, depth+1)
		if err != nil {
			return nil, err
		}
		info.Nested = nestedInfo
	}

	if record.ExceptionCode == uint32(ntnative.StatusAccessViolation) && record.NumberParameters >= 2 {
		info.AccessViolation = &AccessViolationInfo{
			AccessType:  accessTypeString(record.ExceptionInformation[0]),
			DataAddress: record.ExceptionInformation[1],
		}
	}

	return info, nil
}

// readNestedRecord fetches a chained EXCEPTION_RECORD out of the
// debuggee's address space at addr. The chain pointer only makes sense
// in the debuggee's own memory, so this always goes through the
// process's memory view rather than the local stateInfo buffer.
func readNestedRecord(addr uint32, reader Reader) (*ntnative.ExceptionRecord, error) {
	const size = int(unsafe.Sizeof(ntnative.ExceptionRecord{}))
	buf, err := reader.Read(addr, size)
	if err != nil {
		return nil, fmt.Errorf("exception: reading chained record at 0x%08x: %w", addr, err)
	}
	if len(buf) < size {
		return nil, fmt.Errorf("exception: short read of chained record at 0x%08x", addr)
	}
	return (*ntnative.ExceptionRecord)(unsafe.Pointer(&buf[0])), nil
}

func accessTypeString(code uint32) string {
	switch code {
	case accessRead:
		return "read"
	case accessWrite:
		return "write"
	case accessExecute:
		return "execute"
	default:
		return "unknown"
	}
}
