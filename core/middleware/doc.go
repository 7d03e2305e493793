// Package middleware groups the Fiber middleware of the server.
//
//   - rayid: tags every request with an X-Ray-ID (kept from the caller when
//     present) and stores it for logger.WithRayID.
//   - auth: rejects requests whose X-API-Key does not match server.api_key.
//     An empty key disables the check.
//
// The start command installs rayid first, then request logging, then auth;
// /swagger stays public.
package middleware
