// Package domain defines the data model shared by the interception pipeline,
// the command surface and the encryption engine.
//
// It contains plain types (peer identity, decisions, trust status) and
// contracts (engine, injector, stores) only.
package domain
