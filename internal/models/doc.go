// Package models lists the OpenAI models available to an API key,
// grouped into speech models and chat models usable for translation.
package models
