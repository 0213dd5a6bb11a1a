package cmds

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nativedbg/nativedbg/debugger"
	"github.com/spf13/cobra"
	"golang.org/x/sys/windows"
)

var attachCmd = &cobra.Command{
	Use:   "attach <pid>",
	Short: "Attach to an already-running process by process ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid pid %q: %w", args[0], err)
		}

		processHandle, err := windows.OpenProcess(windows.PROCESS_ALL_ACCESS, false, uint32(pid))
		if err != nil {
			return fmt.Errorf("opening process %d: %w", pid, err)
		}

		entry := log.WithField("pid", pid)
		handler := newLoggingHandler(entry)

		d, err := debugger.New(handler, entry)
		if err != nil {
			return fmt.Errorf("creating debug object: %w", err)
		}
		defer d.Close()

		if err := d.Attach(processHandle); err != nil {
			return fmt.Errorf("attaching to process %d: %w", pid, err)
		}

		if err := runEventLoop(d); err != nil {
			return err
		}

		return dumpSession(handler, os.Stdout)
	},
}
