// Package memzero wipes key material held in byte slices.
package memzero

import "runtime"

// Zero overwrites b with zeros.
func Zero(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}

// All zeroes every slice in bufs.
func All(bufs ...[]byte) {
	for _, b := range bufs {
		Zero(b)
	}
}
