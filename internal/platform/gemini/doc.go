// Package gemini implements the generation.Generator interface using
// Google's Gemini API. The model is asked for a fixed-shape JSON array of
// question/answer pairs; the client is created lazily so a missing API key
// surfaces on the generation path as a configuration error instead of
// failing application startup.
package gemini
