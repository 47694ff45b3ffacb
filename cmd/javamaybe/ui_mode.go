package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the interactive progress view of run and watch.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.TrimSpace(strings.ToLower(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// active reports whether the progress view replaces plain output. --quiet
// always wins; auto needs a terminal on stdout.
func (m uiMode) active(quiet bool) bool {
	switch {
	case quiet, m == uiModeOff:
		return false
	case m == uiModeOn:
		return true
	}
	return isTerminal(os.Stdout)
}
