// Package session owns the persisted bearer token and the authentication
// state machine built on top of it.
//
// # Session Store
//
// [Store] wraps durable storage holding a single opaque bearer token keyed
// by a fixed name. [SQLiteStore] is the production implementation;
// [MemoryStore] substitutes for it in tests. The token is the only state
// that survives process restarts.
//
// # Auth Workflow
//
// [Workflow] is an explicit two-state machine (Unauthenticated,
// Authenticated) with pure transitions:
//
//	NewWorkflow  : Authenticated iff the store holds a token
//	Login        : fetch the authorization URL from the backend
//	CompleteLogin: exchange the callback code, persist the token
//	Logout       : clear the store, return to Unauthenticated
//
// The workflow never validates a stored token against the backend; a token
// is trusted until a request fails with it.
package session
