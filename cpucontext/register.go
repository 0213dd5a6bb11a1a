package cpucontext

import "fmt"

// Register names every general-purpose and segment register this engine
// exposes through a single Get/Set accessor pair, replacing the original
// debugger's per-register offset+type-tag closure table (design note in
// spec.md §9) with a plain enum switch.
type Register int

const (
	RegEax Register = iota
	RegEbx
	RegEcx
	RegEdx
	RegEsi
	RegEdi
	RegEbp
	RegEsp
	RegEip
	RegEFlags
	RegSegCs
	RegSegDs
	RegSegEs
	RegSegFs
	RegSegGs
	RegSegSs
	RegDr0
	RegDr1
	RegDr2
	RegDr3
	RegDr6
	RegDr7
)

var registerNames = map[Register]string{
	RegEax:    "eax",
	RegEbx:    "ebx",
	RegEcx:    "ecx",
	RegEdx:    "edx",
	RegEsi:    "esi",
	RegEdi:    "edi",
	RegEbp:    "ebp",
	RegEsp:    "esp",
	RegEip:    "eip",
	RegEFlags: "eflags",
	RegSegCs:  "cs",
	RegSegDs:  "ds",
	RegSegEs:  "es",
	RegSegFs:  "fs",
	RegSegGs:  "gs",
	RegSegSs:  "ss",
	RegDr0:    "dr0",
	RegDr1:    "dr1",
	RegDr2:    "dr2",
	RegDr3:    "dr3",
	RegDr6:    "dr6",
	RegDr7:    "dr7",
}

func (r Register) String() string {
	if n, ok := registerNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Register(%d)", int(r))
}

// Get reads a single register out of ctx.
func (c *CpuContext) Get(r Register) (uint32, error) {
	switch r {
	case RegEax:
		return c.raw.Eax, nil
	case RegEbx:
		return c.raw.Ebx, nil
	case RegEcx:
		return c.raw.Ecx, nil
	case RegEdx:
		return c.raw.Edx, nil
	case RegEsi:
		return c.raw.Esi, nil
	case RegEdi:
		return c.raw.Edi, nil
	case RegEbp:
		return c.raw.Ebp, nil
	case RegEsp:
		return c.raw.Esp, nil
	case RegEip:
		return c.raw.Eip, nil
	case RegEFlags:
		return c.raw.EFlags, nil
	case RegSegCs:
		return c.raw.SegCs, nil
	case RegSegDs:
		return c.raw.SegDs, nil
	case RegSegEs:
		return c.raw.SegEs, nil
	case RegSegFs:
		return c.raw.SegFs, nil
	case RegSegGs:
		return c.raw.SegGs, nil
	case RegSegSs:
		return c.raw.SegSs, nil
	case RegDr0:
		return c.raw.Dr0, nil
	case RegDr1:
		return c.raw.Dr1, nil
	case RegDr2:
		return c.raw.Dr2, nil
	case RegDr3:
		return c.raw.Dr3, nil
	case RegDr6:
		return c.raw.Dr6, nil
	case RegDr7:
		return c.raw.Dr7, nil
	default:
		return 0, fmt.Errorf("cpucontext: unknown register %v", r)
	}
}

// Set writes a single register into ctx. Callers must call Store to push
// the change back to the thread; Set only mutates the in-memory copy.
func (c *CpuContext) Set(r Register, v uint32) error {
	switch r {
	case RegEax:
		c.raw.Eax = v
	case RegEbx:
		c.raw.Ebx = v
	case RegEcx:
		c.raw.Ecx = v
	case RegEdx:
		c.raw.Edx = v
	case RegEsi:
		c.raw.Esi = v
	case RegEdi:
		c.raw.Edi = v
	case RegEbp:
		c.raw.Ebp = v
	case RegEsp:
		c.raw.Esp = v
	case RegEip:
		c.raw.Eip = v
	case RegEFlags:
		c.raw.EFlags = v
	case RegSegCs:
		c.raw.SegCs = v
	case RegSegDs:
		c.raw.SegDs = v
	case RegSegEs:
		c.raw.SegEs = v
	case RegSegFs:
		c.raw.SegFs = v
	case RegSegGs:
		c.raw.SegGs = v
	case RegSegSs:
		c.raw.SegSs = v
	case RegDr0:
		c.raw.Dr0 = v
	case RegDr1:
		c.raw.Dr1 = v
	case RegDr2:
		c.raw.Dr2 = v
	case RegDr3:
		c.raw.Dr3 = v
	case RegDr6:
		c.raw.Dr6 = v
	case RegDr7:
		c.raw.Dr7 = v
	default:
		return fmt.Errorf("cpucontext: unknown register %v", r)
	}
	return nil
}
