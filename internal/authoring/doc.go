// Package authoring implements the deck authoring workflow: a working card
// list built from manual input and AI generation, and the commit decision
// that turns it into a persisted deck (or an ephemeral one for guests).
package authoring
