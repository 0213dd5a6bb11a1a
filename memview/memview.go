// Package memview implements spec.md §4.2: read, write, query, and
// protect a remote process's virtual address space by handle.
package memview

import (
	"github.com/nativedbg/nativedbg/ntnative"
	"golang.org/x/sys/windows"
)

// Page protection constants, re-exported from ntnative so callers never
// need to import that package directly for the PAGE_* set (spec.md §6).
const (
	PageNoAccess         = ntnative.PageNoAccess
	PageReadOnly         = ntnative.PageReadOnly
	PageReadWrite        = ntnative.PageReadWrite
	PageWriteCopy        = ntnative.PageWriteCopy
	PageExecute          = ntnative.PageExecute
	PageExecuteRead      = ntnative.PageExecuteRead
	PageExecuteReadWrite = ntnative.PageExecuteReadWrite
	PageExecuteWriteCopy = ntnative.PageExecuteWriteCopy
	PageGuard            = ntnative.PageGuard
	PageNoCache          = ntnative.PageNoCache
	PageWriteCombine     = ntnative.PageWriteCombine
)

// RegionState and RegionType enumerate MEMORY_BASIC_INFORMATION.State
// and .Type, decoded into the three-way sets spec.md §4.2 names.
type RegionState int

const (
	StateUnknown RegionState = iota
	StateReserved
	StateCommit
	StateFree
)

func (s RegionState) String() string {
	switch s {
	case StateReserved:
		return "reserved"
	case StateCommit:
		return "commit"
	case StateFree:
		return "free"
	default:
		return "unknown"
	}
}

type RegionType int

const (
	TypeUnknown RegionType = iota
	TypePrivate
	TypeMapped
	TypeImage
)

func (t RegionType) String() string {
	switch t {
	case TypePrivate:
		return "private"
	case TypeMapped:
		return "mapped"
	case TypeImage:
		return "image"
	default:
		return "unknown"
	}
}

// Region is the decoded result of Query.
type Region struct {
	AllocationBase    uint32
	RegionSize        uint32
	AllocationProtect uint32
	CurrentProtect    uint32
	State             RegionState
	Type              RegionType
}

// View reads, writes, queries, and protects memory in a single remote
// process, identified by its handle. A View never owns the handle: the
// owning entity (target.Process) is responsible for closing it.
type View struct {
	Handle windows.Handle
}

// New returns a View over the virtual address space of the process
// identified by handle.
func New(handle windows.Handle) *View {
	return &View{Handle: handle}
}

// Read returns exactly the bytes actually transferred, which may be
// shorter than size at an inaccessible boundary; it fails only if the
// first page is inaccessible.
func (v *View) Read(address uint32, size int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	n, err := ntnative.ReadVirtualMemory(v.Handle, address, buf)
	if err != nil && n == 0 {
		return nil, err
	}
	if err != nil {
		return buf[:n], nil
	}
	return buf[:n], nil
}

// Write returns the number of bytes accepted.
func (v *View) Write(address uint32, data []byte) (int, error) {
	return ntnative.WriteVirtualMemory(v.Handle, address, data)
}

// Query returns the region containing address.
func (v *View) Query(address uint32) (Region, error) {
	info, err := ntnative.QueryVirtualMemoryBasic(v.Handle, address)
	if err != nil {
		return Region{}, err
	}

	r := Region{
		AllocationBase:    info.AllocationBase,
		RegionSize:        uint32(info.RegionSize),
		AllocationProtect: info.AllocationProtect,
		CurrentProtect:    info.Protect,
	}

	switch info.State {
	case ntnative.MemReserve:
		r.State = StateReserved
	case ntnative.MemCommit:
		r.State = StateCommit
	case ntnative.MemFree:
		r.State = StateFree
	}

	switch info.Type {
	case ntnative.MemPrivate:
		r.Type = TypePrivate
	case ntnative.MemMapped:
		r.Type = TypeMapped
	case ntnative.MemImage:
		r.Type = TypeImage
	}

	return r, nil
}

// Protect changes protection over [address, address+size) to
// newProtect, atomically from the caller's perspective, and returns the
// previous protection value.
func (v *View) Protect(address uint32, size uint32, newProtect uint32) (uint32, error) {
	return ntnative.ProtectVirtualMemory(v.Handle, address, size, newProtect)
}

// QuerySectionName returns the backing file path of the section mapped
// at address, or fails if the range is not a mapped image/section.
func (v *View) QuerySectionName(address uint32) (string, error) {
	return ntnative.QueryVirtualMemorySectionName(v.Handle, address)
}
