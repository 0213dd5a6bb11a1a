package cmds

import (
	"fmt"
	"io"
)

// dumpSession writes handler's accumulated session summary as YAML to
// w, for post-mortem inspection once a debug session has ended.
func dumpSession(handler *loggingHandler, w io.Writer) error {
	out, err := handler.Session().Marshal()
	if err != nil {
		return fmt.Errorf("marshaling session summary: %w", err)
	}
	_, err = w.Write(out)
	return err
}
