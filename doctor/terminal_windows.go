//go:build windows

package doctor

import (
	"os"

	"uitranscriber/shutdown"
)

const hookHint = "  Hint: run from an interactive desktop session"

func resetTerminal() {}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		println("\nInterrupted")
		os.Exit(1)
	}()
}
