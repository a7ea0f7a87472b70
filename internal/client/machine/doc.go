// Package machine is the session and screen state machine of the Ordo
// client. A Machine owns the current screen, the signed-in session, the
// in-flight capture and generation result, the organizing-step progress and
// the isGenerating/isSyncing guards. Every user action is a method; long
// calls into the camera, the generation client or the persistence backend
// run without the state lock, and their results are folded back into state
// afterwards.
//
// Triggers that do not apply to the current screen return
// ErrInvalidTransition and leave state untouched. Triggers that would start
// a second generation or a second persistence write return ErrBusy.
//
// Failures are never fatal: the machine always resolves to a navigable
// screen and, where the user needs to know, records a Notice in State.
package machine
