// Package services defines the error taxonomy shared across the packager.
//
// Components wrap failures with a sentinel marker so callers can classify
// them with errors.Is without parsing messages: configuration and validation
// problems abort before output is produced, ordering problems surface data
// loss at finish, interruption marks cooperative cancellation, and I/O errors
// propagate unretried.
package services
