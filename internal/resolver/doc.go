// Package resolver turns the human-readable names in a bucket definition into
// Clockify IDs, consulting the local cache before the remote API.
//
// Every kind is resolved the same way: a cache hit is returned without any
// network traffic; a miss queries Clockify by name within the parent scope,
// requires exactly one match, and caches the result under the name the caller
// asked for. Storing the caller's name (not Clockify's spelling) is what
// makes a second lookup a guaranteed cache hit.
package resolver
