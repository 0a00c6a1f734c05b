package action

import (
	"os"
	"runtime"
	"sync"
)

var (
	shell     string
	shellFlag string
	shellOnce sync.Once
)

// getShell returns the interpreter used to run commands and the flag that makes it
// read the command from its arguments.
func getShell() (string, string) {
	shellOnce.Do(func() {
		if runtime.GOOS == "windows" {
			shell, shellFlag = "cmd", "/C"
			return
		}
		shell, shellFlag = os.Getenv("SHELL"), "-c"
		if shell == "" {
			shell = "/bin/sh"
		}
	})
	return shell, shellFlag
}
