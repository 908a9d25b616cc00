// Package processor runs kannadify without a window. It drives the same
// controller as the GUI for single texts and batch files, starts the backend
// in-process when no backend URL is configured, and launches the GUI and the
// standalone server for the other command modes.
package processor
