// Package errors provides structured error types for the timing shim.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the canonical routine name and the
// decorated symbol involved, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBind, errors.KindRegistration).
//		Routine("t_startf").
//		Symbol("T_STARTF").
//		Detail("export already defined").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseMarshal, "t_prf", 70000, 4, 65536)
//
// Facility status codes are never turned into errors; they are returned to
// callers verbatim. All errors implement the standard error interface and
// support errors.Is/As.
package errors
