package gitlab

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/herrhotzenplotz/gcli"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL, "glpat-test", ts.Client())
}

func TestGitLabGetIssueSummary(t *testing.T) {
	a := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer glpat-test" {
			t.Errorf("Authorization header = %q, want Bearer glpat-test", got)
		}
		json.NewEncoder(w).Encode(Issue{
			ID: 900, IID: 7, Title: "fix the thing", State: "opened",
			Author: User{Username: "ana"}, Labels: []string{"bug"},
		})
	})

	c := gcli.NewContext(nil, nil)
	got, err := a.GetIssueSummary(c, "group", "project", 7)
	if err != nil {
		t.Fatalf("GetIssueSummary: %v", err)
	}
	if got.ID != 7 {
		t.Errorf("ID = %d, want 7 (the project-local iid, not the global id)", got.ID)
	}
	if got.Author != "ana" || got.State != "opened" {
		t.Errorf("got %+v", got)
	}
}

func TestGitLabSearchIssuesQueryParams(t *testing.T) {
	a := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != "opened" {
			t.Errorf("state = %q, want opened", q.Get("state"))
		}
		if q.Get("labels") != "bug,p1" {
			t.Errorf("labels = %q, want bug,p1", q.Get("labels"))
		}
		json.NewEncoder(w).Encode([]Issue{{IID: 1, Title: "x", Author: User{Username: "a"}}})
	})

	c := gcli.NewContext(nil, nil)
	got, err := a.SearchIssues(c, "group", "project", gcli.IssueFilter{State: "opened", Labels: []string{"bug", "p1"}}, -1)
	if err != nil {
		t.Fatalf("SearchIssues: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d issues, want 1", len(got))
	}
}

func TestGitLabIssueClearMilestoneSendsNull(t *testing.T) {
	a := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		v, ok := body["milestone_id"]
		if !ok {
			t.Fatal("milestone_id key missing from payload")
		}
		if v != nil {
			t.Errorf("milestone_id = %v, want null", v)
		}
		w.Write([]byte(`{}`))
	})

	c := gcli.NewContext(nil, nil)
	if err := a.IssueClearMilestone(c, "group", "project", 7); err != nil {
		t.Fatalf("IssueClearMilestone: %v", err)
	}
}

func TestGitLabIssueRemoveLabelsRequiresAtLeastOne(t *testing.T) {
	a := New("http://unused.invalid", "", nil)
	c := gcli.NewContext(nil, nil)
	if err := a.IssueRemoveLabels(c, "group", "project", 7, nil); err == nil {
		t.Fatal("expected an error removing zero labels")
	}
}

func TestGitLabDeleteReleaseIsUnsupported(t *testing.T) {
	a := New("http://unused.invalid", "", nil)
	c := gcli.NewContext(nil, nil)
	err := a.DeleteRelease(c, "group", "project", 1)
	if err == nil {
		t.Fatal("expected DeleteRelease to report unavailability")
	}
	var de *gcli.DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("error is not a *gcli.DispatchError: %v", err)
	}
}

func TestGitLabQuirksDeclaresAbsentFields(t *testing.T) {
	a := New("https://example.invalid", "", nil)
	q := a.Quirks()
	if q.Issue&gcli.IssueQuirkProdComp == 0 || q.Issue&gcli.IssueQuirkURL == 0 || q.Issue&gcli.IssueQuirkAttachments == 0 {
		t.Errorf("Issue quirks = %v, want ProdComp|URL|Attachments", q.Issue)
	}
	want := gcli.PullQuirkAddDel | gcli.PullQuirkCommits | gcli.PullQuirkChanges | gcli.PullQuirkMerged
	if q.Pull&want != want {
		t.Errorf("Pull quirks = %v, want AddDel|Commits|Changes|Merged", q.Pull)
	}
	if q.Milestone&gcli.MilestoneQuirkNIssues == 0 {
		t.Errorf("Milestone quirks = %v, want NIssues", q.Milestone)
	}
}

func TestGitLabCreateMilestoneFormatsDueDate(t *testing.T) {
	a := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["due_date"] != "2026-03-05" {
			t.Errorf("due_date = %v, want 2026-03-05", body["due_date"])
		}
		json.NewEncoder(w).Encode(Milestone{IID: 3, Title: "v1"})
	})

	c := gcli.NewContext(nil, nil)
	due := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err := a.CreateMilestone(c, "group", "project", gcli.MilestoneCreate{Title: "v1", DueDate: &due})
	if err != nil {
		t.Fatalf("CreateMilestone: %v", err)
	}
}
