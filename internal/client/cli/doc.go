// Package cli provides the interactive jobkeeper command-line client.
//
// Every command works against the local store and returns immediately; the
// sync engine pushes changes in the background. The REPL only blocks on the
// network for login, register and the explicit sync and pull commands.
//
// Key features:
//   - Login / Register / Logout
//   - Jobs: add, edit, delete (this device only), list
//   - Notes: list, add, edit
//   - Videos: stage a file for upload
//   - Sync, pull and status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
