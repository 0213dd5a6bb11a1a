// Package cpucontext models the 32-bit x86 register file a debugged
// thread carries (spec.md §4.3): general-purpose and segment registers,
// the instruction and stack pointers, EFlags, and the debug register
// bank, fetched and stored via NtGetContextThread/NtSetContextThread.
package cpucontext

import (
	"fmt"

	"github.com/nativedbg/nativedbg/ntnative"
	"golang.org/x/sys/windows"
)

// CpuContext is an in-memory copy of a thread's register file. It is not
// live: callers must Fetch to read the thread's current state and Store
// to push edits back.
type CpuContext struct {
	raw ntnative.Context
}

// Fetch reads the full register set (CONTEXT_FULL | CONTEXT_DEBUG_REGISTERS)
// of the thread identified by handle.
func Fetch(handle windows.Handle) (*CpuContext, error) {
	raw := ntnative.Context{ContextFlags: ntnative.ContextFull | ntnative.ContextDebugRegisters}
	if err := ntnative.GetThreadContext(handle, &raw); err != nil {
		return nil, err
	}
	return &CpuContext{raw: raw}, nil
}

// Store writes the full register set back to the thread identified by
// handle.
func (c *CpuContext) Store(handle windows.Handle) error {
	c.raw.ContextFlags = ntnative.ContextFull | ntnative.ContextDebugRegisters
	return ntnative.SetThreadContext(handle, &c.raw)
}

// EFlags returns the decoded flags register.
func (c *CpuContext) EFlags() EFlags {
	return EFlags(c.raw.EFlags)
}

// SetEFlags replaces the flags register wholesale.
func (c *CpuContext) SetEFlags(f EFlags) {
	c.raw.EFlags = f.Uint32()
}

// SetSingleStep arms or disarms the trap flag. The caller is responsible
// for calling Store afterwards; this only mutates the in-memory copy,
// mirroring the original debugger's single_step property setter which
// never issues the SetThreadContext call itself.
func (c *CpuContext) SetSingleStep(enabled bool) {
	c.SetEFlags(c.EFlags().WithTF(enabled))
}

// SingleStep reports whether the trap flag is currently set.
func (c *CpuContext) SingleStep() bool {
	return c.EFlags().TF()
}

// String renders the register file in the stable multi-line form spec.md
// §4.3 fixes as a tested contract:
//
//	eax=00000000 ebx=00000000 ecx=00000000 edx=00000000 esi=00000000 edi=00000000
//	eip=00000000 esp=00000000 ebp=00000000 efl=00000000 o d t s z a p c
//	cs=0000 ss=0000 ds=0000 es=0000 fs=0000 gs=0000
func (c *CpuContext) String() string {
	return fmt.Sprintf(
		"eax=%08x ebx=%08x ecx=%08x edx=%08x esi=%08x edi=%08x\n"+
			"eip=%08x esp=%08x ebp=%08x efl=%08x %s\n"+
			"cs=%04x ss=%04x ds=%04x es=%04x fs=%04x gs=%04x",
		c.raw.Eax, c.raw.Ebx, c.raw.Ecx, c.raw.Edx, c.raw.Esi, c.raw.Edi,
		c.raw.Eip, c.raw.Esp, c.raw.Ebp, c.raw.EFlags, c.EFlags().String(),
		c.raw.SegCs, c.raw.SegSs, c.raw.SegDs, c.raw.SegEs, c.raw.SegFs, c.raw.SegGs,
	)
}
