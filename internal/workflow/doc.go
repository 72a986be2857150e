// Package workflow runs the two user-facing operations: switching the timer
// to a bucket and stopping it.
//
// Switching resolves the workspace, project, tags, user and task in that
// order, then stops the running timer and starts the new entry from the same
// instant. Any failure aborts the run; a failed start after a successful stop
// leaves no timer running.
package workflow
