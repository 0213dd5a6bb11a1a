// Package debugger implements the debug-event dispatcher: the state
// machine that turns a stream of NtWaitForDebugEvent deliveries into
// calls on a Handler, and carries the NtDebugContinue reply each event
// needs (spec.md §4.6-4.7). Grounded on the original debugger's
// Debugger object (_bones/debugger.c): spawn/attach/detach/wait_event
// and its handle_state_change dispatch table.
package debugger

import (
	"fmt"
	"io"
	"sync"

	"github.com/nativedbg/nativedbg/exception"
	"github.com/nativedbg/nativedbg/ntnative"
	"github.com/nativedbg/nativedbg/target"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// Dispatcher owns every Process it has spawned or attached to; a
// Process in turn owns its Threads and Modules (spec.md §9's asymmetric
// ownership model). This is the only type in the engine that closes the
// debug object handle.
type Dispatcher struct {
	debugObject windows.Handle
	handler     Handler
	log         *logrus.Entry

	mu        sync.Mutex
	processes map[uint32]*target.Process
}

// noopLog is the entry New falls back to when given a nil log: it
// discards every record.
var noopLog = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}()

// New creates a debug object and returns a Dispatcher bound to handler.
// It calls ntnative.Init() itself and fails outright if native entry
// points cannot be resolved -- there is no partial-operation mode.
func New(handler Handler, log *logrus.Entry) (*Dispatcher, error) {
	if err := ntnative.Init(); err != nil {
		return nil, err
	}
	obj, err := ntnative.CreateDebugObject()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = noopLog
	}
	return &Dispatcher{
		debugObject: obj,
		handler:     handler,
		log:         log,
		processes:   make(map[uint32]*target.Process),
	}, nil
}

// Close releases the debug object. It does not touch any attached
// process; call Detach first for a clean handoff.
func (d *Dispatcher) Close() error {
	return ntnative.Close(d.debugObject)
}

// Process returns the tracked process for pid, or nil.
func (d *Dispatcher) Process(pid uint32) *target.Process {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.processes[pid]
}

// Processes returns a snapshot of every process currently tracked.
func (d *Dispatcher) Processes() []*target.Process {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*target.Process, 0, len(d.processes))
	for _, p := range d.processes {
		out = append(out, p)
	}
	return out
}

// Spawn launches commandLine suspended, attaches the debug object to
// it, and resumes its initial thread. It does not itself construct a
// target.Process: that happens when the resulting CreateProcess debug
// event arrives through WaitEvent, exactly as the original debugger
// leaves process/thread construction to the Python subclass's
// _on_process_create callback.
func (d *Dispatcher) Spawn(commandLine string) error {
	hProcess, hThread, _, err := ntnative.CreateSuspendedProcess(commandLine)
	if err != nil {
		return err
	}

	if err := ntnative.DebugActiveProcess(hProcess, d.debugObject); err != nil {
		_ = ntnative.TerminateProcess(hProcess, 0xFFFFFFFF)
		_ = ntnative.Close(hThread)
		_ = ntnative.Close(hProcess)
		return err
	}

	// We don't need these handles -- fresh ones arrive with the debug
	// events, matching the original spawn()'s comment verbatim.
	if _, err := ntnative.ResumeThread(hThread); err != nil {
		d.log.WithError(err).Warn("resuming initial thread after spawn")
	}
	_ = ntnative.Close(hThread)
	_ = ntnative.Close(hProcess)
	return nil
}

// Attach binds the debug object to an already-running process handle.
func (d *Dispatcher) Attach(processHandle windows.Handle) error {
	return ntnative.DebugActiveProcess(processHandle, d.debugObject)
}

// Detach stops debugging p. Any event still pending a continue reply
// must be continued first -- NtRemoveProcessDebug fails otherwise -- so
// callers must not call Detach from inside a Handler callback for the
// same process (spec.md's supplemented Detach semantics).
func (d *Dispatcher) Detach(p *target.Process) error {
	if err := ntnative.RemoveProcessDebug(p.Handle, d.debugObject); err != nil {
		return err
	}
	d.mu.Lock()
	delete(d.processes, p.ID)
	d.mu.Unlock()
	return nil
}

// WaitEvent blocks for the next debug event, up to timeoutMs (nil
// blocks forever), dispatches it to the Handler, and replies with
// NtDebugContinue using the disposition the handler returned. It
// reports false with a nil error on timeout.
func (d *Dispatcher) WaitEvent(timeoutMs *uint32) (bool, error) {
	got, wsc, err := ntnative.WaitForDebugEvent(d.debugObject, timeoutMs)
	if err != nil {
		return false, err
	}
	if !got {
		return false, nil
	}

	// The event is acknowledged even when handling it failed (the
	// disposition is then Continue); the handling error is reported after.
	disposition, handleErr := d.handle(wsc)

	client := wsc.AppClientID
	if err := ntnative.DebugContinue(d.debugObject, &client, disposition.continuationStatus()); err != nil {
		return true, err
	}
	if handleErr != nil {
		return true, handleErr
	}
	return true, nil
}

func (d *Dispatcher) handle(wsc *ntnative.WaitStateChange) (ExceptionDisposition, error) {
	pid := wsc.AppClientID.UniqueProcess
	tid := wsc.AppClientID.UniqueThread

	switch wsc.NewState {
	case ntnative.DbgCreateProcessStateChange:
		return Continue, d.handleCreateProcess(wsc, pid, tid)

	case ntnative.DbgExitProcessStateChange:
		return Continue, d.handleExitProcess(wsc, pid)

	case ntnative.DbgCreateThreadStateChange:
		return Continue, d.handleCreateThread(wsc, pid, tid)

	case ntnative.DbgExitThreadStateChange:
		return Continue, d.handleExitThread(wsc, pid, tid)

	case ntnative.DbgExceptionStateChange:
		return d.handleException(wsc, pid, tid)

	case ntnative.DbgBreakpointStateChange:
		return d.handleBreakpoint(pid, tid)

	case ntnative.DbgSingleStepStateChange:
		return d.handleSingleStep(pid, tid)

	case ntnative.DbgLoadDllStateChange:
		return Continue, d.handleLoadDll(wsc, pid)

	case ntnative.DbgUnloadDllStateChange:
		return Continue, d.handleUnloadDll(wsc, pid)

	default:
		return Continue, newEngineError("handle", "unknown debug event state %v", wsc.NewState)
	}
}

func (d *Dispatcher) handleCreateProcess(wsc *ntnative.WaitStateChange, pid, tid uint32) error {
	info := wsc.CreateProcess()

	// The kernel reports the initial thread's start address as zero;
	// recover it the way the original handle_state_change does.
	if info.InitialThreadStart == 0 {
		if addr, err := ntnative.QueryThreadWin32StartAddress(windows.Handle(info.HandleToThread)); err == nil {
			info.InitialThreadStart = addr
		}
	}

	proc, err := target.NewProcess(pid, windows.Handle(info.HandleToProcess), info.BaseOfImage)
	if err != nil {
		return err
	}
	thread := target.NewThread(tid, windows.Handle(info.HandleToThread), info.InitialThreadStart)
	proc.AddThread(thread)

	module := target.NewModule(info.BaseOfImage)
	proc.AddModule(module)

	d.mu.Lock()
	d.processes[pid] = proc
	d.mu.Unlock()

	// The kernel delivers no separate CreateThread/LoadDll event for the
	// initial thread or the main image, so the dispatcher synthesizes
	// both here, matching the on_process_create -> on_module_load ->
	// on_thread_create ordering the original debugger's dispatch fixes.
	d.handler.OnProcessCreate(proc)
	d.handler.OnModuleLoad(proc, module)
	d.handler.OnThreadCreate(proc, thread)
	return nil
}

func (d *Dispatcher) handleExitProcess(wsc *ntnative.WaitStateChange, pid uint32) error {
	info := wsc.ExitProcess()
	proc := d.Process(pid)
	if proc == nil {
		return newEngineError("handleExitProcess", "unknown process %d", pid)
	}
	proc.Exited = true
	proc.ExitStatus = info.ExitStatus
	d.handler.OnProcessExit(proc, uint32(info.ExitStatus))

	d.mu.Lock()
	delete(d.processes, pid)
	d.mu.Unlock()
	return nil
}

func (d *Dispatcher) handleCreateThread(wsc *ntnative.WaitStateChange, pid, tid uint32) error {
	info := wsc.CreateThread()
	proc := d.Process(pid)
	if proc == nil {
		return newEngineError("handleCreateThread", "unknown process %d", pid)
	}
	thread := target.NewThread(tid, windows.Handle(info.HandleToThread), info.StartAddress)
	proc.AddThread(thread)
	d.handler.OnThreadCreate(proc, thread)
	return nil
}

func (d *Dispatcher) handleExitThread(wsc *ntnative.WaitStateChange, pid, tid uint32) error {
	info := wsc.ExitThread()
	proc := d.Process(pid)
	if proc == nil {
		return newEngineError("handleExitThread", "unknown process %d", pid)
	}
	thread := proc.RemoveThread(tid)
	if thread == nil {
		d.log.Warnf("exit-thread event for untracked thread %d in process %d", tid, pid)
		return nil
	}
	thread.Exited = true
	thread.ExitStatus = info.ExitStatus
	d.handler.OnThreadExit(proc, thread, uint32(info.ExitStatus))
	return nil
}

func (d *Dispatcher) handleException(wsc *ntnative.WaitStateChange, pid, tid uint32) (ExceptionDisposition, error) {
	proc := d.Process(pid)
	if proc == nil {
		return Continue, newEngineError("handleException", "unknown process %d", pid)
	}
	thread := proc.Thread(tid)
	if thread == nil {
		return Continue, newEngineError("handleException", "unknown thread %d in process %d", tid, pid)
	}

	ev := wsc.Exception()
	info, err := exception.Translate(ev.Record, proc)
	if err != nil {
		return Continue, err
	}

	switch ev.Record.ExceptionCode {
	case breakpointExceptionCode:
		return d.handler.OnBreakpoint(proc, thread), nil
	case singleStepExceptionCode:
		return d.handler.OnSingleStep(proc, thread), nil
	default:
		return d.handler.OnException(proc, thread, info, ev.FirstChance != 0), nil
	}
}

// These codes duplicate what the kernel would otherwise deliver as
// DbgBreakpointStateChange/DbgSingleStepStateChange directly; some
// versions of the debug subsystem route them through
// DbgExceptionStateChange instead, so both paths are checked.
const (
	breakpointExceptionCode = 0x80000003
	singleStepExceptionCode = 0x80000004
)

func (d *Dispatcher) handleBreakpoint(pid, tid uint32) (ExceptionDisposition, error) {
	proc := d.Process(pid)
	if proc == nil {
		return Continue, newEngineError("handleBreakpoint", "unknown process %d", pid)
	}
	thread := proc.Thread(tid)
	if thread == nil {
		return Continue, newEngineError("handleBreakpoint", "unknown thread %d in process %d", tid, pid)
	}
	return d.handler.OnBreakpoint(proc, thread), nil
}

func (d *Dispatcher) handleSingleStep(pid, tid uint32) (ExceptionDisposition, error) {
	proc := d.Process(pid)
	if proc == nil {
		return Continue, newEngineError("handleSingleStep", "unknown process %d", pid)
	}
	thread := proc.Thread(tid)
	if thread == nil {
		return Continue, newEngineError("handleSingleStep", "unknown thread %d in process %d", tid, pid)
	}
	return d.handler.OnSingleStep(proc, thread), nil
}

func (d *Dispatcher) handleLoadDll(wsc *ntnative.WaitStateChange, pid uint32) error {
	info := wsc.LoadDll()
	proc := d.Process(pid)
	if proc == nil {
		return newEngineError("handleLoadDll", "unknown process %d", pid)
	}
	module := target.NewModule(info.BaseOfDll)
	proc.AddModule(module)
	d.handler.OnModuleLoad(proc, module)
	return nil
}

func (d *Dispatcher) handleUnloadDll(wsc *ntnative.WaitStateChange, pid uint32) error {
	info := wsc.UnloadDll()
	proc := d.Process(pid)
	if proc == nil {
		return newEngineError("handleUnloadDll", "unknown process %d", pid)
	}
	module := proc.RemoveModule(info.BaseAddress)
	if module == nil {
		d.log.Warnf("unload-dll event for untracked module 0x%08x in process %d", info.BaseAddress, pid)
		return nil
	}
	d.handler.OnModuleUnload(proc, module)
	return nil
}

func (d *Dispatcher) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("debugger(%d processes)", len(d.processes))
}
