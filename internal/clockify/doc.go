// Package clockify is a small client for the Clockify REST API.
//
// It covers only what dcl needs: identifying the current user, looking up
// projects, tags and tasks by name, stopping the running timer and starting
// a new time entry. Every request carries the X-Api-Key header. Non-2xx
// responses surface as *RemoteError; a 404 from StopTimer means no timer was
// running and is reported as stopped=false.
package clockify
