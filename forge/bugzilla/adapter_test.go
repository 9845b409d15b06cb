package bugzilla

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/herrhotzenplotz/gcli"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL, "test-key", ts.Client())
}

func TestBugzillaGetIssueSummaryMergesCommentBody(t *testing.T) {
	a := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/rest/bug":
			w.Write([]byte(`{"bugs":[{"id":123,"summary":"crash on load","status":"NEW","creator":"alice","product":"gcli","component":"core"}]}`))
		case r.URL.Path == "/rest/bug/123/comment":
			w.Write([]byte(`{"bugs":{"123":{"comments":[{"id":1,"creator":"alice","time":"2026-01-01T00:00:00Z","text":"steps to reproduce..."},{"id":2,"creator":"bob","time":"2026-01-02T00:00:00Z","text":"confirmed"}]}}}`))
		default:
			t.Fatalf("unexpected request to %s", r.URL.Path)
		}
	})

	c := gcli.NewContext(nil, nil)
	got, err := a.GetIssueSummary(c, "gcli", "core", 123)
	if err != nil {
		t.Fatalf("GetIssueSummary: %v", err)
	}
	if got.Title != "crash on load" {
		t.Errorf("Title = %q, want %q", got.Title, "crash on load")
	}
	if got.Body != "steps to reproduce..." {
		t.Errorf("Body = %q, want the first comment's text", got.Body)
	}
	if got.State != "NEW" {
		t.Errorf("State = %q, want NEW (status carried verbatim)", got.State)
	}
}

func TestBugzillaCommentsSkippingBody(t *testing.T) {
	a := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bugs":{"123":{"comments":[{"id":1,"creator":"alice","time":"2026-01-01T00:00:00Z","text":"original post"},{"id":2,"creator":"bob","time":"2026-01-02T00:00:00Z","text":"a reply"}]}}}`))
	})

	c := gcli.NewContext(nil, nil)
	got, err := a.CommentsSkippingBody(c, 123)
	if err != nil {
		t.Fatalf("CommentsSkippingBody: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d comments, want 1 (the original post excluded)", len(got))
	}
	if got[0].Body != "a reply" || got[0].Author != "bob" {
		t.Errorf("got %+v", got[0])
	}
}

func TestBugzillaAttachmentGetContentDecodesBase64(t *testing.T) {
	payload := []byte("hello attachment")
	encoded := base64.StdEncoding.EncodeToString(payload)

	a := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"attachments":{"55":{"id":55,"data":"` + encoded + `"}}}`))
	})

	c := gcli.NewContext(nil, nil)
	var buf bytes.Buffer
	if err := a.AttachmentGetContent(c, "gcli", "core", 55, &buf); err != nil {
		t.Fatalf("AttachmentGetContent: %v", err)
	}
	if buf.String() != string(payload) {
		t.Errorf("decoded content = %q, want %q", buf.String(), string(payload))
	}
}

func TestBugzillaIssueSetMilestoneUnsupported(t *testing.T) {
	a := New("http://unused.invalid", "", nil)
	c := gcli.NewContext(nil, nil)
	if err := a.IssueSetMilestone(c, "gcli", "core", 1, 5); err == nil {
		t.Fatal("expected issue_set_milestone to be unsupported")
	}
}

func TestBugzillaSubmitCommentRejectsPullTarget(t *testing.T) {
	a := New("http://unused.invalid", "", nil)
	c := gcli.NewContext(nil, nil)
	if _, err := a.SubmitComment(c, "gcli", "core", gcli.CommentTargetPull, 1, "x"); err == nil {
		t.Fatal("expected submitting a pull comment to fail: bugzilla has no pulls")
	}
}

func TestBugzillaQuirksDeclaresAbsentFields(t *testing.T) {
	a := New("https://example.invalid", "", nil)
	q := a.Quirks()
	want := gcli.IssueQuirkComments | gcli.IssueQuirkLocked
	if q.Issue&want != want {
		t.Errorf("Issue quirks = %v, want Comments|Locked", q.Issue)
	}
	if q.Issue&gcli.IssueQuirkAttachments != 0 {
		t.Error("Attachments must not be marked absent: bugzilla implements GetIssueAttachments/AttachmentGetContent")
	}
}

func TestBugzillaIssueRemoveLabelsRequiresAtLeastOne(t *testing.T) {
	a := New("http://unused.invalid", "", nil)
	c := gcli.NewContext(nil, nil)
	if err := a.IssueRemoveLabels(c, "gcli", "core", 1, nil); err == nil {
		t.Fatal("expected an error removing zero labels")
	}
}
