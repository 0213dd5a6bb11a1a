package cmds

import (
	"fmt"
	"os"
	"strings"

	"github.com/cosiner/argv"
	"github.com/nativedbg/nativedbg/debugger"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl -- command [args...]",
	Short: "Spawn a process and drop into an interactive command loop at every stop",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(strings.Join(args, " "))
	},
}

// replSession holds the state an interactive command needs: the
// dispatcher, the handler tracking the last reported stop, and whether
// the loop should keep going.
type replSession struct {
	d       *debugger.Dispatcher
	handler *loggingHandler
	quit    bool
}

func runRepl(cmdLine string) error {
	entry := log.WithField("cmdline", cmdLine)
	handler := newLoggingHandler(entry)

	d, err := debugger.New(handler, entry)
	if err != nil {
		return fmt.Errorf("creating debug object: %w", err)
	}
	defer d.Close()

	if err := d.Spawn(cmdLine); err != nil {
		return fmt.Errorf("spawning %q: %w", cmdLine, err)
	}

	session := &replSession{d: d, handler: handler}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for !session.quit {
		got, err := d.WaitEvent(nil)
		if err != nil {
			return fmt.Errorf("waiting for debug event: %w", err)
		}
		if !got {
			continue
		}
		if len(d.Processes()) == 0 {
			break
		}

		input, err := line.Prompt("ntdbg> ")
		if err == liner.ErrPromptAborted {
			break
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}
		line.AppendHistory(input)

		if err := session.dispatch(input); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	return dumpSession(handler, os.Stdout)
}

// dispatch splits input shell-style and runs the matching command.
func (s *replSession) dispatch(input string) error {
	words, err := argv.Argv([]rune(input), nil, nil)
	if err != nil {
		return fmt.Errorf("parsing command: %w", err)
	}
	if len(words) == 0 || len(words[0]) == 0 {
		return nil
	}
	fields := words[0]

	switch fields[0] {
	case "quit", "q":
		s.quit = true
		return nil
	case "regs":
		return s.cmdRegs()
	case "continue", "c":
		return nil
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (s *replSession) cmdRegs() error {
	pid, tid := s.handler.LastStop()
	proc := s.d.Process(pid)
	if proc == nil {
		return fmt.Errorf("no current process")
	}
	thread := proc.Thread(tid)
	if thread == nil {
		for _, t := range proc.Threads() {
			thread = t
			break
		}
	}
	if thread == nil {
		return fmt.Errorf("no current thread")
	}
	ctx, err := thread.Context()
	if err != nil {
		return err
	}
	fmt.Println(ctx.String())
	return nil
}
