package cpucontext

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/nativedbg/nativedbg/ntnative"
)

var _ = Describe("CpuContext", func() {
	It("single-steps idempotently: arming twice is the same as arming once", func() {
		ctx := &CpuContext{raw: ntnative.Context{EFlags: 0x200}}
		ctx.SetSingleStep(true)
		once := ctx.raw.EFlags
		ctx.SetSingleStep(true)
		Expect(ctx.raw.EFlags).To(Equal(once))
	})

	It("disarming single-step restores every other flag untouched", func() {
		ctx := &CpuContext{raw: ntnative.Context{EFlags: 0x246}}
		before := ctx.raw.EFlags
		ctx.SetSingleStep(true)
		ctx.SetSingleStep(false)
		Expect(ctx.raw.EFlags).To(Equal(before))
	})

	It("reports registers through Get/Set round-trip", func() {
		ctx := &CpuContext{}
		Expect(ctx.Set(RegEax, 0x1234)).To(Succeed())
		v, err := ctx.Get(RegEax)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0x1234)))
	})

	It("renders the documented multi-line form", func() {
		ctx := &CpuContext{raw: ntnative.Context{
			Eax: 1, Ebx: 2, Ecx: 3, Edx: 4, Esi: 5, Edi: 6,
			Eip: 7, Esp: 8, Ebp: 9, EFlags: 0,
			SegCs: 0x1B, SegSs: 0x23, SegDs: 0x23, SegEs: 0x23, SegFs: 0x3B, SegGs: 0,
		}}
		s := ctx.String()
		Expect(s).To(ContainSubstring("eax=00000001 ebx=00000002"))
		Expect(s).To(ContainSubstring("eip=00000007 esp=00000008 ebp=00000009"))
		Expect(s).To(ContainSubstring("cs=001b ss=0023"))
	})
})
