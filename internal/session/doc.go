// Package session implements the application lifecycle of one client: a
// small state machine that selects which workflow (auth, deck overview, deck
// setup, studying) is active, holds the client's identity or guest flag, and
// reacts to identity-change events from the credential layer.
package session
