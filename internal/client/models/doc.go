// Package models holds the client-side domain types: the authenticated
// Session with its UserSettings, saved spaces, organizing steps, styles,
// screens and the opaque Image value passed between capture, generation
// and persistence.
package models
