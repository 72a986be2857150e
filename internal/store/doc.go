// Package store persists the Clockify identifiers dcl has already resolved.
//
// The cache lives in a single SQLite file (cache.db next to the config by
// default). Rows are keyed by the remote ID and looked up by name within a
// parent scope: projects and tags by workspace, tasks by project. Rows are
// inserted once, right after remote discovery, and never updated or removed,
// so a remote rename leaves the old name pointing at the same ID.
//
// The cache is single-tenant. Only the user's default workspace is stored
// and SeedIdentity refuses to record a second one. Delete the file to switch
// accounts.
package store
