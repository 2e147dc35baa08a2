package script

import "fmt"

const (
	DefaultInterpreter = "python"
	DefaultScriptName  = "transcribed.py"
	DefaultPause       = 0.5
)

// Preamble returns the script header, one newline-terminated line per entry.
func Preamble(interpreter, scriptName string, pause float64) []string {
	return []string{
		"#!/usr/bin/env " + interpreter + "\n",
		"# /// script\n",
		"# dependencies = [\"pyautogui\"]\n",
		"# ///\n",
		"\"\"\"\n",
		"From the command line and if you have `uv` installed\n",
		"you can execute this script as follow:\n",
		"\n",
		"uv run " + scriptName + "\n",
		"\"\"\"\n",
		"\n",
		"import pyautogui\n",
		"from pyautogui import write\n",
		"from pyautogui import press\n",
		"from pyautogui import click\n",
		"\n",
		"\n",
		fmt.Sprintf("pyautogui.PAUSE = %s\n", formatPause(pause)),
		"\n",
	}
}

// formatPause renders the pause like a Python float literal (0.5, 1.0).
func formatPause(pause float64) string {
	s := fmt.Sprintf("%g", pause)
	for _, c := range s {
		if c == '.' || c == 'e' {
			return s
		}
	}
	return s + ".0"
}
