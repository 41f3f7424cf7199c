// Package host defines what the chat client offers a loaded module (message
// signals, commands, status items, the focused window) and provides Client,
// a small in-process chat runtime implementing it.
//
// Client follows the single-threaded event model of terminal chat clients:
// every handler, command and redraw runs on the goroutine executing Run (or
// Drain). Other goroutines hand work to it with Post.
package host
