// Command leaguectl is the operator tool for the league document store:
// migrations, document writes through the consistency engine, standings,
// audits and the scheduled audit worker.
package main

import (
	"fmt"
	"os"
	"runtime"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "leaguectl"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
