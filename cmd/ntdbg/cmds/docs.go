package cmds

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsOutputDir string

var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate man pages for the ntdbg command tree",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(docsOutputDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", docsOutputDir, err)
		}
		header := &doc.GenManHeader{
			Title:   "NTDBG",
			Section: "1",
		}
		return doc.GenManTree(RootCmd, header, docsOutputDir)
	},
}

func init() {
	docsCmd.Flags().StringVar(&docsOutputDir, "out", "./man", "directory to write man pages into")
}
