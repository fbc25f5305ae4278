// Package listing implements the deck overview workflow: fetching the
// signed-in user's decks into a local snapshot and deleting decks from it
// after user confirmation.
package listing
