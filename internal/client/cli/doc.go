// Package cli provides the interactive admin console.
//
// It wires configuration, local storage, the credential cache, the backend
// client, the session monitor and the route guard behind a REPL. Every
// entered line counts as user activity; protected views run through the
// guard and are cut short when the session expires underneath them.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
