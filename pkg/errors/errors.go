// Package errors defines the structured error type used throughout taskhub.
// Every error that crosses a package boundary carries a stable, machine-readable
// [Code]; the HTTP layer derives response status codes from the code's category
// and never serializes the underlying cause, so internal detail (driver errors,
// wrapped context) stays out of client responses.
//
// Creating errors:
//
//	err := errors.New(errors.CodeValidation, "title must not be empty")
//	err := errors.Wrap(dbErr, errors.CodeInternalDatabase, "task lookup failed")
//
// Inspecting errors:
//
//	if errors.HasCode(err, errors.CodeNotFoundTask) { ... }
//	if errors.IsAuthentication(err) { ... } // any AUTH_xxx code
package errors
