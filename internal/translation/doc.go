// Package translation provides English to Kannada translation services.
// MyMemory, OpenAI and Gemini backends are supported; any of them can be
// wrapped in a circuit breaker and a translation cache backed by the
// history store.
package translation
