// Package errors provides the structured error type shared by every layer.
//
// Internal code returns plain Go errors or *AppError; only the HTTP layer
// turns an AppError into a status code and body. RedirectError carries a
// redirect out of a handler the same way.
package errors
