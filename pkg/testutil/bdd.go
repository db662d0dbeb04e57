package testutil

import "testing"

// Given, When, and Then run fn as a labelled subtest. They keep multi-phase
// tests readable without a BDD framework; phases share the parent test's
// state and run in order.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	phase(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	phase(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	phase(t, "Then", desc, fn)
}

func phase(t *testing.T, label, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(label+" "+desc, fn)
}
