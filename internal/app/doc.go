// Package app wires the Rosarium components together and runs the TUI.
//
// Run composes everything from configuration: the file-backed token store,
// the shared API transport with its refresh protocol and activity counter,
// the session store, the catalog read client, the notification channel,
// the mutation façade, and the query cache controller, then hands the lot
// to the UI. Nothing here is a package-level singleton; every consumer
// receives its dependencies explicitly, which keeps the pieces testable in
// isolation.
//
// The only wiring subtlety is the mutation reload signal: the façade's
// post-mutation callback invalidates the query cache, and the next resolve
// re-fetches. The controller's own delete path additionally handles the
// walk-back from an emptied trailing page.
package app
