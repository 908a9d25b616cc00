// Package history persists completed translations in a SQLite database.
// The server records every successful translation and the translator
// consults it before calling a remote provider.
package history
