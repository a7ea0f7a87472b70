// Package cli is the interactive Ordo terminal client.
//
// The REPL reads one command per line, drives the screen state machine and
// renders the resulting screen. Which commands are offered depends on the
// current screen; "help" lists them.
//
// Typical session:
//
//	signin                 prompt for email and password
//	scan / shutter / use   capture a photo from the camera source
//	style compact          reimagine it in the chosen style
//	steps / next / focus   walk the organizing plan
//	save Desk              keep it in the library
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
