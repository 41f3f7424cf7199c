// Package store provides file-based persistence for the encryption engine.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. All methods are concurrency-safe via
// internal locking. Stored files live under the configured home directory.
//
// The package includes stores for:
//   - Per-account identity keys, sealed with a passphrase (IdentityFileStore)
//   - Verified peer fingerprints (TrustFileStore), reloaded when the file
//     changes on disk
package store
