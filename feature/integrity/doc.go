// Package integrity checks that the database is ready for the loaded policies.
//
// For every policy it inspects the referential, each target and both result
// tables:
//
//   - target and referential tables must exist with every column their aliases
//     resolve to and every column they map to the result tables;
//   - result tables dropped before a run, or created when missing, are always
//     usable; a cleaned table must already have the columns a run writes.
//
// # Endpoints
//
//   - GET /integrity: check every policy.
//   - GET /integrity/:policy: check one policy.
//
// The same check backs "esg-matching validate --schema".
package integrity
