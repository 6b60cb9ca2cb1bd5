package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/randalmurphal/tracetrim/trim"
)

// Process exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitConfig      = 2
	exitSource      = 3
	exitDestination = 4
	exitMismatch    = 5
	exitCanceled    = 130
)

// usageError marks bad flags, arguments or settings.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// mismatchError reports that compare found differences.
type mismatchError struct {
	count int
}

func (e mismatchError) Error() string {
	return fmt.Sprintf("traces differ (%d mismatches reported)", e.count)
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var mm mismatchError
	if errors.As(err, &mm) {
		return exitMismatch
	}
	var ue usageError
	if errors.As(err, &ue) {
		return exitConfig
	}
	switch trim.Kind(err) {
	case trim.ErrInvalidConfiguration:
		return exitConfig
	case trim.ErrSourceNotFound, trim.ErrSourceUnreadable:
		return exitSource
	case trim.ErrDestinationUnwritable:
		return exitDestination
	}
	if errors.Is(err, context.Canceled) {
		return exitCanceled
	}
	if errors.Is(err, fs.ErrNotExist) {
		return exitSource
	}
	return exitFailure
}
