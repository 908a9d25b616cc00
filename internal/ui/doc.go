// Package ui contains the translator controller shared by the desktop and
// headless frontends. The controller owns the session state (current audio
// asset, playback flag) and drives an abstract View, Player and Saver while
// talking to the translation backend.
package ui
