package github

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/herrhotzenplotz/gcli"
)

// testServer starts a server whose handler is mounted at the given path and
// returns the adapter wired against it, the teacher's own pattern of a
// single-route fake server per test rather than a full request router.
func testServer(t *testing.T, path string, handler http.HandlerFunc) (*Adapter, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(path, handler)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	a := New(ts.URL, "test-token", ts.Client())
	return a, ts
}

func testMethod(t *testing.T, r *http.Request, want string) {
	t.Helper()
	if r.Method != want {
		t.Errorf("request method = %s, want %s", r.Method, want)
	}
}

func TestGetIssueSummary(t *testing.T) {
	a, _ := testServer(t, "/repos/octo/hello/issues/42", func(w http.ResponseWriter, r *http.Request) {
		testMethod(t, r, http.MethodGet)
		if got := r.Header.Get("Authorization"); got != "token test-token" {
			t.Errorf("Authorization header = %q, want %q", got, "token test-token")
		}
		json.NewEncoder(w).Encode(Issue{
			ID:     1,
			Number: 42,
			Title:  "something broke",
			State:  "open",
			User:   User{Login: "octocat"},
			Labels: []Label{{Name: "bug"}},
		})
	})

	c := gcli.NewContext(nil, nil)
	got, err := a.GetIssueSummary(c, "octo", "hello", 42)
	if err != nil {
		t.Fatalf("GetIssueSummary: %v", err)
	}
	if got.Title != "something broke" || got.Author != "octocat" || got.State != "open" {
		t.Errorf("got %+v", got)
	}
	if len(got.Labels) != 1 || got.Labels[0] != "bug" {
		t.Errorf("Labels = %v, want [bug]", got.Labels)
	}
}

func TestSearchIssuesFiltersOutPullRequests(t *testing.T) {
	a, _ := testServer(t, "/repos/octo/hello/issues", func(w http.ResponseWriter, r *http.Request) {
		testMethod(t, r, http.MethodGet)
		if got := r.URL.Query().Get("state"); got != "open" {
			t.Errorf("state query param = %q, want open", got)
		}
		json.NewEncoder(w).Encode([]Issue{
			{ID: 1, Title: "a real issue", User: User{Login: "a"}},
			{ID: 2, Title: "a pull request", User: User{Login: "b"}, PullRequestLinks: &PullRequestLinks{URL: "x"}},
		})
	})

	c := gcli.NewContext(nil, nil)
	got, err := a.SearchIssues(c, "octo", "hello", gcli.IssueFilter{}, -1)
	if err != nil {
		t.Fatalf("SearchIssues: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d issues, want 1 (pull requests filtered out)", len(got))
	}
	if got[0].Title != "a real issue" {
		t.Errorf("got[0].Title = %q, want %q", got[0].Title, "a real issue")
	}
}

func TestSubmitComment(t *testing.T) {
	a, _ := testServer(t, "/repos/octo/hello/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		testMethod(t, r, http.MethodPost)
		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req.Body != "hello there" {
			t.Errorf("request body.Body = %q, want %q", req.Body, "hello there")
		}
		json.NewEncoder(w).Encode(Comment{ID: 7, Body: req.Body, User: User{Login: "octocat"}})
	})

	c := gcli.NewContext(nil, nil)
	got, err := a.SubmitComment(c, "octo", "hello", gcli.CommentTargetIssue, 42, "hello there")
	if err != nil {
		t.Fatalf("SubmitComment: %v", err)
	}
	if got.Body != "hello there" || got.Author != "octocat" {
		t.Errorf("got %+v", got)
	}
}

func TestGetIssueSummaryHTTPError(t *testing.T) {
	a, _ := testServer(t, "/repos/octo/hello/issues/99", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(APIError{Message: "Not Found"})
	})

	c := gcli.NewContext(nil, nil)
	_, err := a.GetIssueSummary(c, "octo", "hello", 99)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	var he *gcli.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("error is not an *gcli.HTTPError: %v", err)
	}
	if he.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", he.StatusCode)
	}
	if c.Error() == "" {
		t.Error("expected the context's error slot to be set")
	}
}
