// Package timer stops and starts Clockify time entries.
//
// Stopping ends the running entry one minute before the requested instant so
// the new entry started at that instant never overlaps it. An entry is
// billable unless one of its tags is named exactly "Overhead".
package timer
