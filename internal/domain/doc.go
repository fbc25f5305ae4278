// Package domain contains the core entities of the flashdeck application:
// users, flashcards, and decks. These types carry their own validation and
// have no dependencies on storage, transport, or external services.
package domain
