// Package services defines shared utilities consumed by the resolver, the
// Clockify client and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and bucket names for
//     logging.
//   - Structured error markers plus the Wrap helper, and ExitCode which turns
//     a marked error into the process exit status.
//
// Tag new failure paths with one of the markers so the CLI reports them with
// a consistent exit code.
package services
