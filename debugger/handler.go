package debugger

import (
	"github.com/nativedbg/nativedbg/exception"
	"github.com/nativedbg/nativedbg/target"
)

// Handler is the full set of debug-event callbacks a host can observe,
// replacing the original debugger's duck-typed "call the method if the
// subclass happens to define it" dispatch (spec.md §4.6) with an
// explicit interface. Embed NoopHandler to implement only the events
// you care about.
type Handler interface {
	OnProcessCreate(p *target.Process)
	OnProcessExit(p *target.Process, exitStatus uint32)
	OnThreadCreate(p *target.Process, t *target.Thread)
	OnThreadExit(p *target.Process, t *target.Thread, exitStatus uint32)
	OnException(p *target.Process, t *target.Thread, info *exception.Info, firstChance bool) ExceptionDisposition
	OnBreakpoint(p *target.Process, t *target.Thread) ExceptionDisposition
	OnSingleStep(p *target.Process, t *target.Thread) ExceptionDisposition
	OnModuleLoad(p *target.Process, m *target.Module)
	OnModuleUnload(p *target.Process, m *target.Module)
}

// NoopHandler implements Handler with do-nothing bodies; embed it and
// override only the events a host actually cares about.
type NoopHandler struct{}

func (NoopHandler) OnProcessCreate(*target.Process) {}
func (NoopHandler) OnProcessExit(*target.Process, uint32)           {}
func (NoopHandler) OnThreadCreate(*target.Process, *target.Thread)  {}
func (NoopHandler) OnThreadExit(*target.Process, *target.Thread, uint32) {}
func (NoopHandler) OnException(*target.Process, *target.Thread, *exception.Info, bool) ExceptionDisposition {
	return NotHandled
}
func (NoopHandler) OnBreakpoint(*target.Process, *target.Thread) ExceptionDisposition {
	return Handled
}
func (NoopHandler) OnSingleStep(*target.Process, *target.Thread) ExceptionDisposition {
	return Continue
}
func (NoopHandler) OnModuleLoad(*target.Process, *target.Module)   {}
func (NoopHandler) OnModuleUnload(*target.Process, *target.Module) {}
