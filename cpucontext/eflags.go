package cpucontext

// EFlags bit positions (spec.md §6), 0-based from the LSB.
const (
	bitCF = 0
	bitPF = 2
	bitAF = 4
	bitZF = 6
	bitSF = 7
	bitTF = 8
	bitIF = 9
	bitDF = 10
	bitOF = 11
)

// EFlags is a 32-bit value presenting named boolean accessors for the
// flags this engine cares about. It round-trips losslessly through the
// underlying uint32: constructing EFlags(v) and reading back Uint32()
// always yields v.
type EFlags uint32

func (f EFlags) bit(pos uint) bool {
	return f&(1<<pos) != 0
}

func (f EFlags) setBit(pos uint, v bool) EFlags {
	if v {
		return f | (1 << pos)
	}
	return f &^ (1 << pos)
}

func (f EFlags) Uint32() uint32 { return uint32(f) }

func (f EFlags) CF() bool { return f.bit(bitCF) }
func (f EFlags) PF() bool { return f.bit(bitPF) }
func (f EFlags) AF() bool { return f.bit(bitAF) }
func (f EFlags) ZF() bool { return f.bit(bitZF) }
func (f EFlags) SF() bool { return f.bit(bitSF) }
func (f EFlags) TF() bool { return f.bit(bitTF) }
func (f EFlags) IF() bool { return f.bit(bitIF) }
func (f EFlags) DF() bool { return f.bit(bitDF) }
func (f EFlags) OF() bool { return f.bit(bitOF) }

func (f EFlags) WithCF(v bool) EFlags { return f.setBit(bitCF, v) }
func (f EFlags) WithPF(v bool) EFlags { return f.setBit(bitPF, v) }
func (f EFlags) WithAF(v bool) EFlags { return f.setBit(bitAF, v) }
func (f EFlags) WithZF(v bool) EFlags { return f.setBit(bitZF, v) }
func (f EFlags) WithSF(v bool) EFlags { return f.setBit(bitSF, v) }
func (f EFlags) WithTF(v bool) EFlags { return f.setBit(bitTF, v) }
func (f EFlags) WithIF(v bool) EFlags { return f.setBit(bitIF, v) }
func (f EFlags) WithDF(v bool) EFlags { return f.setBit(bitDF, v) }
func (f EFlags) WithOF(v bool) EFlags { return f.setBit(bitOF, v) }

func flagLetter(set bool, upper, lower byte) byte {
	if set {
		return upper
	}
	return lower
}

// String renders the flags as a space-separated letter sequence, most
// significant first, upper-case when set: "O D T S Z A P C". This
// mirrors the original debugger's eflags_sprintf exactly.
func (f EFlags) String() string {
	buf := []byte{
		flagLetter(f.OF(), 'O', 'o'), ' ',
		flagLetter(f.DF(), 'D', 'd'), ' ',
		flagLetter(f.TF(), 'T', 't'), ' ',
		flagLetter(f.SF(), 'S', 's'), ' ',
		flagLetter(f.ZF(), 'Z', 'z'), ' ',
		flagLetter(f.AF(), 'A', 'a'), ' ',
		flagLetter(f.PF(), 'P', 'p'), ' ',
		flagLetter(f.CF(), 'C', 'c'),
	}
	return string(buf)
}
