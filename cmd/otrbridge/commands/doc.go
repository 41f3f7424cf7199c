// Package commands defines the otrbridge CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init <nick>          Create the identity keys for nick on the relay
//   - fingerprint <nick>   Print the identity fingerprint for nick
//   - trust list           List verified peer fingerprints
//   - relay                Run the websocket relay
//   - chat <nick>          Join the relay and chat, with /otr loaded
//
// # Implementation
//
// The root command loads the YAML config and builds the app wiring (logger,
// stores, runtime state) before any subcommand runs. The key passphrase
// comes from --passphrase or the OTRBRIDGE_PASSPHRASE environment variable.
package commands
