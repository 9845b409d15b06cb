// Package gitea adapts the Forge Abstraction Core to Gitea/Codeberg's REST
// API, which is a GitHub API subset/clone. Rather than re-implement the
// parsing, this adapter embeds a *github.Adapter and inherits its issue,
// pull, milestone, label and release-listing behavior wholesale — the same
// shortcut src/gitea/releases.c takes in the original. Only base-URL
// composition, auth header scheme, and release-asset upload (Gitea wants a
// multipart upload, GitHub wants a raw body POST) are overridden.
package gitea

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/forge/github"
	"github.com/herrhotzenplotz/gcli/internal/transport"
)

func stdctx() context.Context { return context.Background() }

// DefaultAPIBase is Codeberg's public API root; self-hosted Gitea instances
// pass their own base URL to New.
const DefaultAPIBase = "https://codeberg.org/api/v1"

// Adapter implements gcli.Forge against a Gitea (or Codeberg) instance.
type Adapter struct {
	*github.Adapter

	apiBase string
	tr      *transport.Client
}

// New builds a Gitea adapter. If apiBase is empty, DefaultAPIBase is used.
func New(apiBase, token string, httpClient *http.Client) *Adapter {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	apiBase = strings.TrimRight(apiBase, "/")
	gh := github.New(apiBase, token, httpClient)
	// Reassign the embedded adapter's forge type: it is used both by
	// Type() and by UnimplementedForge's dispatch-error messages for
	// whichever operations this adapter doesn't override.
	gh.ForgeType = gcli.ForgeGitea
	a := &Adapter{
		Adapter: gh,
		apiBase: apiBase,
	}
	a.tr = transport.New(apiBase, a.MakeAuthHeader(token), "gcli/1.0", httpClient, a.GetAPIErrorString)
	return a
}

// MakeAuthHeader uses Gitea's "token " scheme, identical to GitHub's, kept
// as an explicit override so a future divergence doesn't silently inherit
// GitHub's behavior.
func (a *Adapter) MakeAuthHeader(token string) string {
	if token == "" {
		return ""
	}
	return "token " + token
}

func (a *Adapter) url(format string, args ...any) string {
	return a.apiBase + fmt.Sprintf(format, args...)
}

// CreateRelease creates the release through Gitea's endpoint directly
// (rather than the embedded GitHub adapter's CreateRelease, whose asset
// upload assumes GitHub's raw-body upload_url) and uploads each asset via
// Gitea's multipart attachment endpoint.
func (a *Adapter) CreateRelease(c *gcli.Context, owner, repo string, r gcli.ReleaseCreate) (gcli.Release, error) {
	eo, er := transport.URLEncode(owner), transport.URLEncode(repo)
	req := github.ReleaseRequest{
		TagName:         r.Tag,
		TargetCommitish: r.Commitish,
		Name:            r.Name,
		Body:            r.Body,
		Draft:           r.Draft,
		Prerelease:      r.Prerelease,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return gcli.Release{}, c.Fail(&gcli.EncodeError{Reason: err.Error()})
	}
	body, _, err := a.tr.FetchWithMethod(stdctx(), http.MethodPost, a.url("/repos/%s/%s/releases", eo, er), payload)
	if err != nil {
		return gcli.Release{}, c.Fail(err)
	}
	var raw github.Release
	if err := json.Unmarshal(body, &raw); err != nil {
		return gcli.Release{}, c.Fail(&gcli.DecodeError{Func: "gitea.create_release", Reason: err.Error()})
	}
	release := normalizeRelease(raw)

	for _, asset := range r.Assets {
		name := asset.Name
		if name == "" {
			name = filepath.Base(asset.Path)
		}
		uploadURL := a.url("/repos/%s/%s/releases/%d/assets?name=%s", eo, er, raw.ID, transport.URLEncode(name))
		assetBody, err := a.tr.GiteaUploadAttachment(stdctx(), uploadURL, asset.Path)
		if err != nil {
			return release, c.Fail(err)
		}
		var uploaded github.ReleaseAsset
		if err := json.Unmarshal(assetBody, &uploaded); err == nil {
			release.Assets = append(release.Assets, gcli.ReleaseAsset{Name: uploaded.Name, URL: uploaded.BrowserDownloadURL})
		}
	}
	return release, nil
}

func normalizeRelease(r github.Release) gcli.Release {
	assets := make([]gcli.ReleaseAsset, 0, len(r.Assets))
	for _, ra := range r.Assets {
		assets = append(assets, gcli.ReleaseAsset{Name: ra.Name, URL: ra.BrowserDownloadURL})
	}
	return gcli.Release{
		ID:         uint64(r.ID),
		Name:       r.Name,
		Body:       r.Body,
		Author:     r.Author.Login,
		Date:       r.CreatedAt.Time,
		TarballURL: r.TarballURL,
		Draft:      r.Draft,
		Prerelease: r.Prerelease,
		Assets:     assets,
	}
}
