// Package generation defines the boundary between the application core and
// external AI/LLM services used for flashcard content generation. The
// Generator interface is implemented by internal/platform/gemini; controllers
// depend only on this package.
package generation
