// Package errors provides the classified error primitives used across pagesmith.
//
// Every structural failure of a build is reported as a ClassifiedError whose
// category mirrors the kind of problem (usage, missing input, broken
// inheritance, I/O) and whose severity tells the pipeline whether it may
// continue. The CLI adapter maps categories onto process exit codes.
//
// Example usage:
//
//	err := errors.MissingFile("vars.txt not found").
//		WithContext("path", varsPath).
//		WithCause(statErr).
//		Build()
package errors
