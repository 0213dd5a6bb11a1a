package cmds

import (
	"sync"

	"github.com/nativedbg/nativedbg/debugger"
	"github.com/nativedbg/nativedbg/exception"
	"github.com/nativedbg/nativedbg/internal/sessiondump"
	"github.com/nativedbg/nativedbg/target"
	"github.com/sirupsen/logrus"
)

// loggingHandler logs every debug event at debug, info or warn level and builds up
// a sessiondump.Session the caller can marshal once the session ends.
type loggingHandler struct {
	debugger.NoopHandler
	log *logrus.Entry

	mu        sync.Mutex
	session   sessiondump.Session
	lastPid   uint32
	lastTid   uint32
}

func newLoggingHandler(log *logrus.Entry) *loggingHandler {
	return &loggingHandler{log: log}
}

func (h *loggingHandler) OnProcessCreate(p *target.Process) {
	h.log.WithFields(logrus.Fields{"pid": p.ID, "base": p.ImageBase}).Info("process created")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.Processes = append(h.session.Processes, sessiondump.ProcessRecord{
		ID:        p.ID,
		ImageBase: p.ImageBase,
	})
}

func (h *loggingHandler) OnProcessExit(p *target.Process, exitStatus uint32) {
	h.log.WithFields(logrus.Fields{"pid": p.ID, "exit_status": exitStatus}).Info("process exited")
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.session.Processes {
		if h.session.Processes[i].ID == p.ID {
			h.session.Processes[i].Exited = true
			h.session.Processes[i].ExitStatus = exitStatus
		}
	}
}

func (h *loggingHandler) OnThreadCreate(p *target.Process, t *target.Thread) {
	h.log.WithFields(logrus.Fields{"pid": p.ID, "tid": t.ID}).Debug("thread created")
}

func (h *loggingHandler) OnThreadExit(p *target.Process, t *target.Thread, exitStatus uint32) {
	h.log.WithFields(logrus.Fields{"pid": p.ID, "tid": t.ID, "exit_status": exitStatus}).Debug("thread exited")
}

func (h *loggingHandler) OnException(p *target.Process, t *target.Thread, info *exception.Info, firstChance bool) debugger.ExceptionDisposition {
	h.recordStop(p.ID, t.ID)
	h.log.WithFields(logrus.Fields{
		"pid":          p.ID,
		"tid":          t.ID,
		"code":         info.Code,
		"address":      info.Address,
		"first_chance": firstChance,
	}).Warn("exception")

	h.mu.Lock()
	h.session.Exceptions = append(h.session.Exceptions, sessiondump.ExceptionRecord{
		ProcessID:   p.ID,
		ThreadID:    t.ID,
		Code:        info.Code,
		Address:     info.Address,
		FirstChance: firstChance,
	})
	h.mu.Unlock()

	if firstChance {
		return debugger.NotHandled
	}
	return debugger.NotHandled
}

func (h *loggingHandler) OnModuleLoad(p *target.Process, m *target.Module) {
	name, _ := m.Name()
	path, _ := m.Path()
	h.log.WithFields(logrus.Fields{"pid": p.ID, "base": m.BaseAddress, "name": name}).Debug("module loaded")
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.session.Processes {
		if h.session.Processes[i].ID == p.ID {
			h.session.Processes[i].Modules = append(h.session.Processes[i].Modules, sessiondump.ModuleRecord{
				BaseAddress: m.BaseAddress,
				Path:        path,
			})
		}
	}
}

func (h *loggingHandler) OnModuleUnload(p *target.Process, m *target.Module) {
	h.log.WithFields(logrus.Fields{"pid": p.ID, "base": m.BaseAddress}).Debug("module unloaded")
}

func (h *loggingHandler) OnBreakpoint(p *target.Process, t *target.Thread) debugger.ExceptionDisposition {
	h.recordStop(p.ID, t.ID)
	h.log.WithFields(logrus.Fields{"pid": p.ID, "tid": t.ID}).Info("breakpoint")
	return debugger.Handled
}

func (h *loggingHandler) OnSingleStep(p *target.Process, t *target.Thread) debugger.ExceptionDisposition {
	h.recordStop(p.ID, t.ID)
	h.log.WithFields(logrus.Fields{"pid": p.ID, "tid": t.ID}).Debug("single step")
	return debugger.Handled
}

func (h *loggingHandler) recordStop(pid, tid uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastPid = pid
	h.lastTid = tid
}

// LastStop returns the process/thread ID pair the most recent
// exception, breakpoint or single-step event reported.
func (h *loggingHandler) LastStop() (uint32, uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastPid, h.lastTid
}

func (h *loggingHandler) Session() *sessiondump.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &h.session
}
