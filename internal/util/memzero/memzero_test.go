package memzero

import "testing"

func TestAll(t *testing.T) {
	a, b := []byte{1, 2, 3}, []byte{4}
	All(a, nil, b)
	for _, v := range append(a, b...) {
		if v != 0 {
			t.Fatalf("not wiped: %v %v", a, b)
		}
	}
}
