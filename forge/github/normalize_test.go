package github

import (
	"testing"

	"github.com/herrhotzenplotz/gcli"
)

// TestNormalizePullMergedKeepsClosedState covers the scenario where a
// merged pull request still reports state "closed" on the wire; State must
// be carried verbatim and Merged is the only merge signal.
func TestNormalizePullMergedKeepsClosedState(t *testing.T) {
	p := PullRequest{
		ID:     886044243,
		Number: 42,
		Title:  "add feature",
		State:  "closed",
		Merged: true,
		User:   User{Login: "octocat"},
	}
	got := normalizePull(p)
	if got.State != "closed" {
		t.Errorf("State = %q, want closed (GitHub never emits \"merged\" as a state)", got.State)
	}
	if !got.Merged {
		t.Error("Merged = false, want true")
	}
}

func TestQuirksDeclaresAbsentFields(t *testing.T) {
	a := New("https://example.invalid", "", nil)
	q := a.Quirks()
	if q.Issue&gcli.IssueQuirkAttachments == 0 {
		t.Error("expected IssueQuirkAttachments to be set for github")
	}
	if q.Issue&gcli.IssueQuirkProdComp == 0 || q.Issue&gcli.IssueQuirkURL == 0 {
		t.Error("expected IssueQuirkProdComp and IssueQuirkURL to be set for github")
	}
	if q.Pull&gcli.PullQuirkCoverage == 0 || q.Pull&gcli.PullQuirkAutomerge == 0 {
		t.Error("expected PullQuirkCoverage and PullQuirkAutomerge to be set for github")
	}
	if q.Milestone&gcli.MilestoneQuirkExpired == 0 || q.Milestone&gcli.MilestoneQuirkDueDate == 0 || q.Milestone&gcli.MilestoneQuirkPulls == 0 {
		t.Error("expected MilestoneQuirkExpired, MilestoneQuirkDueDate and MilestoneQuirkPulls to be set for github")
	}
}
