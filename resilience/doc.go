// Package resilience keeps outbound requests polite and tolerant of
// transient failures: Throttle spaces requests per host and Retry repeats
// an operation with exponential backoff.
package resilience
