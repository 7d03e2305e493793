// Package utils provides common utility functions for the esg-matching application.
// It includes strict literal parsing for settings documents and other shared logic
// that doesn't fit into domain-specific packages.
//
// Boolean settings are never evaluated as code: ParseBool accepts a fixed set of
// literals and rejects everything else with ErrInvalidBool.
package utils
