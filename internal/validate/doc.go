// Package validate provides input validation for stopwatch's run records.
//
// This package enforces data integrity rules at the boundary between user
// input and the storage layer. Each validation function returns nil on
// success or a descriptive error on failure.
//
// # Validation Functions
//
// Label validates run labels (grouping keys shown in every listing).
// ID validates a full run ID supplied by an import.
// Output validates captured output size.
//
// # Error Handling
//
// All validation errors wrap one of the sentinel errors defined in errors.go
// (ErrInvalidLabel, ErrInvalidID, etc.). Use errors.Is() for type-safe
// error checking:
//
//	if errors.Is(err, validate.ErrInvalidLabel) {
//	    // handle invalid label
//	}
package validate
