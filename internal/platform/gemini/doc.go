// Package gemini implements the generation.Pipeline interface over Google's
// Gemini API.
//
// The package is an infrastructure adapter: it translates between the
// application's domain models and the Gemini API without exposing the
// external service to the core. It owns prompt construction, transport
// retries with exponential backoff, safety-filter handling, and parsing of
// the structured JSON responses into candidate terms.
package gemini
