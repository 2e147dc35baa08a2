//go:build !windows

package doctor

import (
	"os"
	"os/exec"

	"uitranscriber/shutdown"
)

const hookHint = "  Hint: the hook needs an X11 session (or XWayland) and, on some systems, membership in the input group"

func resetTerminal() {
	exec.Command("stty", "sane").Run()
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		println("\nInterrupted")
		os.Exit(1)
	}()
}
