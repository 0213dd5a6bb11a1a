package cmds

import (
	"fmt"
	"os"
	"strings"

	"github.com/nativedbg/nativedbg/debugger"
	"github.com/spf13/cobra"
)

var spawnCmd = &cobra.Command{
	Use:   "spawn [flags] -- command [args...]",
	Short: "Spawn a process suspended and debug it from its very first instruction",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmdLine := strings.Join(args, " ")

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

		if err := runEventLoop(d); err != nil {
			return err
		}

		return dumpSession(handler, os.Stdout)
	},
}

// runEventLoop drains debug events until no process remains attached.
func runEventLoop(d *debugger.Dispatcher) error {
	for {
		got, err := d.WaitEvent(nil)
		if err != nil {
			return fmt.Errorf("waiting for debug event: %w", err)
		}
		if !got {
			continue
		}
		if len(d.Processes()) == 0 {
			return nil
		}
	}
}
