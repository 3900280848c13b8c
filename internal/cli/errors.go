package cli

import (
	"errors"

	"github.com/aidanlsb/resqpack/internal/codec"
	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/grid"
	"github.com/aidanlsb/resqpack/internal/index"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Container errors
	ErrContainerNotFound = "CONTAINER_NOT_FOUND"
	ErrContainerExists   = "CONTAINER_EXISTS"
	ErrContainerInvalid  = "CONTAINER_INVALID"
	ErrDiagnosticsFound  = "DIAGNOSTICS_FOUND"

	// Schema errors
	ErrTypeNotFound = "TYPE_NOT_FOUND"

	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// Storage errors
	ErrDatabaseError  = "DATABASE_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// errorCode maps a container, index or grid error to its code, or fallback
// when the error carries no known sentinel.
func errorCode(err error, fallback string) string {
	switch {
	case errors.Is(err, epc.ErrNotFound):
		return ErrContainerNotFound
	case errors.Is(err, epc.ErrExists):
		return ErrContainerExists
	case errors.Is(err, epc.ErrManifest),
		errors.Is(err, epc.ErrNoParts),
		errors.Is(err, epc.ErrDuplicate),
		errors.Is(err, codec.ErrNotIdentified):
		return ErrContainerInvalid
	case errors.Is(err, index.ErrIndexLocked):
		return ErrDatabaseError
	case errors.Is(err, grid.ErrShape), errors.Is(err, grid.ErrDuplicateName):
		return ErrInvalidInput
	}
	return fallback
}
