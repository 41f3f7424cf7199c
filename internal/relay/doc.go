// Package relay is a minimal chat network for the demo client: a websocket
// server that forwards text frames between connected nicks, and a client
// that implements the host transport on top of it.
//
// Endpoints
//
//   - GET /ws/{nick}   upgrade to a websocket and join as nick
//   - GET /healthz     liveness probe
//
// Frames are JSON objects. The server overwrites From with the sender's
// nick. A frame for an unknown nick comes back to the sender with Error set.
// A nick already connected is refused with 409 Conflict.
package relay
