package main

import (
	"github.com/nativedbg/nativedbg/cmd/ntdbg/cmds"
)

func main() {
	cmds.Execute()
}
