// Package main hosts the dcl CLI entrypoint and command graph.
//
// `dcl <bucket>` switches the Clockify timer to a configured bucket and
// `dcl stop` ends it. The remaining commands list buckets, inspect the ID
// cache, run preflight checks and scaffold configuration. Configuration
// loading, logging setup and the store/client wiring live in commandContext
// so each command only deals with presentation.
package main
