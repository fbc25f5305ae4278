// Package study implements the study session: a linear walk over one deck's
// cards in stored order, with reveal and advance as the only interactions.
package study
