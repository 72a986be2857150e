// Package preflight provides readiness checks behind "dcl check".
//
// Each check reports a Result instead of failing fast so the command can
// show every problem at once: the config and cache directories must be
// read/write, the cache database must open, and Clockify must accept the
// configured API key.
package preflight
