package cpucontext_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/nativedbg/nativedbg/cpucontext"
)

func TestCpuContext(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "cpucontext suite")
}

var _ = Describe("EFlags", func() {
	It("round-trips through Uint32 losslessly", func() {
		for _, v := range []uint32{0, 1, 0xFFFFFFFF, 0x00000246, 0xDEADBEEF} {
			f := cpucontext.EFlags(v)
			Expect(f.Uint32()).To(Equal(v))
		}
	})

	It("reports each named bit independently", func() {
		f := cpucontext.EFlags(0)
		Expect(f.CF()).To(BeFalse())
		Expect(f.WithCF(true).CF()).To(BeTrue())
		Expect(f.WithCF(true).ZF()).To(BeFalse())
	})

	It("toggles the trap flag without disturbing other bits", func() {
		f := cpucontext.EFlags(0x00000246) // IF|ZF|PF|reserved bit 1
		stepped := f.WithTF(true)
		Expect(stepped.TF()).To(BeTrue())
		Expect(stepped.ZF()).To(Equal(f.ZF()))
		Expect(stepped.IF()).To(Equal(f.IF()))

		back := stepped.WithTF(false)
		Expect(back).To(Equal(f))
	})

	It("renders the stable letter sequence, upper-case when set", func() {
		f := cpucontext.EFlags(0).WithZF(true).WithCF(true)
		Expect(f.String()).To(Equal("o d t s Z a p C"))
	})

	It("renders every flag unset in lower case", func() {
		Expect(cpucontext.EFlags(0).String()).To(Equal("o d t s z a p c"))
	})
})
