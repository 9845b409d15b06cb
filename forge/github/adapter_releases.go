package github

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
)

func (a *Adapter) GetReleases(c *gcli.Context, owner, repo string, max int) ([]gcli.Release, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	rawurl := a.url("/repos/%s/%s/releases", eo, er)
	return fetchList(c, a, rawurl, max, func(body []byte) ([]gcli.Release, error) {
		var raw []Release
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "github.parse_releases", Reason: err.Error()}
		}
		out := make([]gcli.Release, 0, len(raw))
		for _, r := range raw {
			out = append(out, normalizeRelease(r))
		}
		return out, nil
	}, nil)
}

// CreateRelease creates the release, then uploads every asset sequentially.
// GitHub's upload_url arrives as a URI template
// ("https://uploads.github.com/.../assets{?name,label}"); it is truncated
// at the first '{' and the name is appended as a plain query parameter,
// mirroring the teacher's literal template handling rather than pulling in
// a URI Template library for a single placeholder.
func (a *Adapter) CreateRelease(c *gcli.Context, owner, repo string, r gcli.ReleaseCreate) (gcli.Release, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	req := ReleaseRequest{
		TagName:         r.Tag,
		TargetCommitish: r.Commitish,
		Name:            r.Name,
		Body:            r.Body,
		Draft:           r.Draft,
		Prerelease:      r.Prerelease,
	}
	var raw Release
	if err := a.do(c, http.MethodPost, a.url("/repos/%s/%s/releases", eo, er), req, &raw); err != nil {
		return gcli.Release{}, err
	}
	release := normalizeRelease(raw)

	base := raw.UploadURL
	if idx := strings.IndexByte(base, '{'); idx >= 0 {
		base = base[:idx]
	}
	for _, asset := range r.Assets {
		data, err := os.ReadFile(asset.Path)
		if err != nil {
			return release, c.Fail(&gcli.LocalIOError{Path: asset.Path, Reason: err})
		}
		name := asset.Name
		if name == "" {
			name = filepath.Base(asset.Path)
		}
		uploadURL := fmt.Sprintf("%s?name=%s", base, transport.URLEncode(name))
		body, err := a.tr.PostUpload(a.stdctx(c), uploadURL, "application/octet-stream", data)
		if err != nil {
			return release, c.Fail(err)
		}
		var uploaded ReleaseAsset
		if err := json.Unmarshal(body, &uploaded); err == nil {
			release.Assets = append(release.Assets, gcli.ReleaseAsset{Name: uploaded.Name, URL: uploaded.BrowserDownloadURL})
		}
	}
	return release, nil
}

func (a *Adapter) DeleteRelease(c *gcli.Context, owner, repo string, id uint64) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodDelete, a.url("/repos/%s/%s/releases/%d", eo, er, id), nil, nil)
}

// --- Labels ---

func (a *Adapter) GetLabels(c *gcli.Context, owner, repo string, max int) ([]gcli.Label, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	rawurl := a.url("/repos/%s/%s/labels", eo, er)
	return fetchList(c, a, rawurl, max, func(body []byte) ([]gcli.Label, error) {
		var raw []Label
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "github.parse_labels", Reason: err.Error()}
		}
		out := make([]gcli.Label, 0, len(raw))
		for _, l := range raw {
			out = append(out, normalizeLabel(l))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) CreateLabel(c *gcli.Context, owner, repo string, l gcli.Label) (gcli.Label, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	payload := map[string]string{"name": l.Name, "description": l.Description, "color": ColorHex(l.Color)}
	var raw Label
	if err := a.do(c, http.MethodPost, a.url("/repos/%s/%s/labels", eo, er), payload, &raw); err != nil {
		return gcli.Label{}, err
	}
	return normalizeLabel(raw), nil
}

func (a *Adapter) DeleteLabel(c *gcli.Context, owner, repo string, name string) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodDelete, a.url("/repos/%s/%s/labels/%s", eo, er, transport.URLEncode(name)), nil, nil)
}
