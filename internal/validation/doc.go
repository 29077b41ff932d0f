// Package validation provides centralized input validation logic.
// This includes file name validation, destination URL validation, and
// form field checks.
//
// All caller inputs are validated before a transfer is constructed so
// malformed requests fail fast instead of surfacing as opaque endpoint
// rejections.
package validation
