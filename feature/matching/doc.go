// Package matching runs matching policies and exposes them over HTTP.
//
// # Run
//
// Service.Run executes one policy:
//
//  1. the matching and no-matching tables are prepared once, sized for every
//     target of the policy (if_table_exists: drop or clean);
//  2. each target's residual set is seeded from the target table;
//  3. the full, residual and indirect matchers run in that order for the types
//     the policy defines, or the subset the request names.
//
// Every binding and requested type is checked before the first statement runs.
// Runs are serialized because they share the result tables. A dry run skips
// preparation and seeding and returns the rendered statements.
//
// When a storage bucket is configured, the report of each run is uploaded as
// JSON under the configured prefix.
//
// # HTTP
//
//   - POST /matching/runs: run a policy; configuration errors answer 400.
//   - GET /matching/policies: list the loaded policies.
package matching
