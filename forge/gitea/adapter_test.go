package gitea

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/forge/github"
)

func TestNewReportsGiteaType(t *testing.T) {
	a := New("https://example.invalid/api/v1", "tok", nil)
	if a.Type() != gcli.ForgeGitea {
		t.Errorf("Type() = %q, want gitea (not inherited github)", a.Type())
	}
}

func TestDefaultAPIBaseUsedWhenEmpty(t *testing.T) {
	a := New("", "tok", nil)
	if !strings.HasPrefix(a.apiBase, DefaultAPIBase) {
		t.Errorf("apiBase = %q, want it to default to Codeberg", a.apiBase)
	}
}

// SearchIssues is never overridden by gitea.Adapter, so this exercises the
// embedded github.Adapter's implementation end to end against a
// Gitea-shaped response and confirms the "token " auth scheme still applies.
func TestInheritedSearchIssuesWorks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/issues", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "token tok" {
			t.Errorf("Authorization header = %q, want token tok", got)
		}
		json.NewEncoder(w).Encode([]github.Issue{
			{ID: 1, Title: "an issue", User: github.User{Login: "a"}},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	a := New(ts.URL, "tok", ts.Client())
	c := gcli.NewContext(nil, nil)
	got, err := a.SearchIssues(c, "octo", "hello", gcli.IssueFilter{}, -1)
	if err != nil {
		t.Fatalf("SearchIssues: %v", err)
	}
	if len(got) != 1 || got[0].Title != "an issue" {
		t.Errorf("got %+v", got)
	}
}

// GetIssueAttachments is a declared gap inherited from the embedded GitHub
// adapter; its dispatch error should still name gitea as the backend rather
// than github.
func TestUnimplementedOpReportsGiteaBackend(t *testing.T) {
	a := New("https://example.invalid/api/v1", "tok", nil)
	c := gcli.NewContext(nil, nil)
	_, err := a.GetIssueAttachments(c, "octo", "hello", 1)
	if err == nil {
		t.Fatal("expected get_issue_attachments to be unimplemented")
	}
	var de *gcli.DispatchError
	if !errors.As(err, &de) || de.Backend != gcli.ForgeGitea {
		t.Errorf("error = %v, want a dispatch error naming gitea as the backend", err)
	}
}

func TestCreateReleaseUploadsAssetsViaMultipart(t *testing.T) {
	dir := t.TempDir()
	assetPath := filepath.Join(dir, "binary.tar.gz")
	if err := os.WriteFile(assetPath, []byte("fake archive contents"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var sawMultipart bool
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/releases", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewEncoder(w).Encode(github.Release{ID: 9, Name: "v1.0"})
	})
	mux.HandleFunc("/repos/octo/hello/releases/9/assets", func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data") {
			t.Errorf("Content-Type = %q, want multipart/form-data", ct)
		}
		sawMultipart = true
		json.NewEncoder(w).Encode(github.ReleaseAsset{Name: "binary.tar.gz", BrowserDownloadURL: "https://example.invalid/binary.tar.gz"})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	a := New(ts.URL, "tok", ts.Client())
	c := gcli.NewContext(nil, nil)
	release, err := a.CreateRelease(c, "octo", "hello", gcli.ReleaseCreate{
		Tag:  "v1.0",
		Name: "v1.0",
		Assets: []gcli.ReleaseAssetUpload{
			{Path: assetPath},
		},
	})
	if err != nil {
		t.Fatalf("CreateRelease: %v", err)
	}
	if !sawMultipart {
		t.Fatal("expected the asset to be uploaded via the multipart attachment endpoint")
	}
	if len(release.Assets) != 1 || release.Assets[0].Name != "binary.tar.gz" {
		t.Errorf("got %+v", release.Assets)
	}
}
