package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/precheck/pkg/errors"
)

// Exit codes. Configuration problems get a distinct code so hook managers
// can tell "your tools found problems" from "your config is broken".
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	err := Execute()
	if err == nil {
		os.Exit(exitOK)
	}

	fmt.Fprintf(os.Stderr, "precheck: %v\n", err)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch errors.GetErrorCode(err) {
	case errors.ErrInterrupted:
		return exitInterrupted
	case errors.ErrConfigLoad, errors.ErrConfigParse, errors.ErrConfigValid,
		errors.ErrGlobInvalid, errors.ErrTemplateInvalid,
		errors.ErrNotFound, errors.ErrInvalidInput:
		return exitUsage
	default:
		return exitFailure
	}
}
