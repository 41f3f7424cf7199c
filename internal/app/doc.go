// Package app wires application dependencies for the CLI.
//
// NewWire builds the logger, the runtime state, the file stores and the
// identity service from a config.Config. StartChat adds a relay connection,
// the host client, the reference engine and the otr module on top, and
// runs them on a single event loop.
package app
