// Package internal contains private implementation details for the upload module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - form: Multipart form body assembly with contractual field ordering
//   - httpapi: The HTTP transport boundary interface
//   - executor: Background execution with a concurrency cap
//   - validation: Input validation logic
//   - testutil: Mocks, builders, and container helpers for tests
package internal
