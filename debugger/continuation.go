package debugger

import "github.com/nativedbg/nativedbg/ntnative"

// ExceptionDisposition is how a handler asks the dispatcher to continue
// after an exception event. It replaces the original debugger's
// conflated int/None return from on_exception (spec.md §4.6) with a
// closed sum type: a handler can no longer return a value that fails to
// map onto a real continuation status.
type ExceptionDisposition int

const (
	// Handled resumes execution as though the exception never happened.
	Handled ExceptionDisposition = iota
	// Continue is the default reply for non-exception events, and for
	// exception events that should simply resume.
	Continue
	// NotHandled passes an exception on to the debuggee's own SEH
	// handlers -- nothing in the debugger claimed it.
	NotHandled
	// TerminateThread tears down only the faulting thread.
	TerminateThread
	// TerminateProcess tears down the whole process.
	TerminateProcess
)

// continuationStatus maps a disposition onto the DBG_* NTSTATUS the
// kernel expects in NtDebugContinue. Non-exception events (create/exit
// process or thread, module load/unload) always continue with
// DBG_CONTINUE regardless of what a handler does in response; only
// exception events can ask for DBG_EXCEPTION_NOT_HANDLED or a
// terminate.
func (d ExceptionDisposition) continuationStatus() ntnative.NTSTATUS {
	switch d {
	case Handled:
		return ntnative.DbgExceptionHandled
	case TerminateThread:
		return ntnative.DbgTerminateThread
	case TerminateProcess:
		return ntnative.DbgTerminateProcess
	case NotHandled:
		return ntnative.DbgExceptionNotHandled
	case Continue:
		return ntnative.DbgContinue
	default:
		return ntnative.DbgContinue
	}
}
