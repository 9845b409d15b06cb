package bugzilla

import "testing"

// TestNormalizeBugKeepsStatusVerbatim covers the scenario where a Bugzilla
// bug's display-cased status ("Closed", not "closed") must survive into
// the normalized issue verbatim, matching Bugzilla's own wire casing.
func TestNormalizeBugKeepsStatusVerbatim(t *testing.T) {
	b := Bug{
		ID:      5,
		Summary: "Toshiba laptop fails to suspend",
		Status:  "Closed",
		Product: "Core",
	}
	got := normalizeBug(b)
	if got.State != "Closed" {
		t.Errorf("State = %q, want %q (verbatim forge-native status)", got.State, "Closed")
	}
}
