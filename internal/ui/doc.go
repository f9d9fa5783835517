// Package ui renders the Rosarium terminal interface with Bubble Tea.
//
// The Model owns four screens: sign-in, registration, the paginated rose
// grid, and the single-rose detail view. All data access goes through the
// core packages; the UI never issues HTTP requests itself. Long-running
// work happens in tea.Cmd functions whose results come back as typed
// messages, and three external event sources feed the same loop via
// program.Send: the transport's busy flag (drives the spinner), the
// notification channel (drives the transient message in the header), and
// the session-expired signal (drops back to sign-in).
//
// A late message for a screen the user already left is simply dropped by
// the Update switch; the core publishes, the view decides relevance.
package ui
