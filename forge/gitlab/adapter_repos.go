package gitlab

import (
	"encoding/json"
	"net/http"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
	"golang.org/x/crypto/ssh"
)

// --- Releases ---

func (a *Adapter) GetReleases(c *gcli.Context, owner, repo string, max int) ([]gcli.Release, error) {
	rawurl := a.url("/projects/%s/releases", project(owner, repo))
	return fetchList(c, a, rawurl, max, func(body []byte) ([]gcli.Release, error) {
		var raw []Release
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_releases", Reason: err.Error()}
		}
		out := make([]gcli.Release, 0, len(raw))
		for _, r := range raw {
			out = append(out, normalizeRelease(r))
		}
		return out, nil
	}, nil)
}

// CreateRelease does not upload r.Assets: GitLab releases reference assets
// by URL into its generic package registry rather than accepting multipart
// bodies on the release endpoint itself, so there is nowhere in this call
// to land a local file the way GitHub's upload_url does.
func (a *Adapter) CreateRelease(c *gcli.Context, owner, repo string, r gcli.ReleaseCreate) (gcli.Release, error) {
	payload := map[string]any{
		"tag_name":    r.Tag,
		"name":        r.Name,
		"description": r.Body,
		"ref":         r.Commitish,
	}
	var raw Release
	if err := a.do(c, http.MethodPost, a.url("/projects/%s/releases", project(owner, repo)), payload, &raw); err != nil {
		return gcli.Release{}, err
	}
	return normalizeRelease(raw), nil
}

// DeleteRelease cannot be expressed against GitLab, whose releases are
// addressed by tag name rather than a numeric ID: the uniform uint64 id
// parameter has nothing to carry a tag in. Use the tag directly against
// the GitLab API outside this abstraction if a numeric ID isn't on hand.
func (a *Adapter) DeleteRelease(c *gcli.Context, owner, repo string, id uint64) error {
	return c.Fail(&gcli.DispatchError{Op: "delete_release", Backend: gcli.ForgeGitLab})
}

// --- Labels ---

func (a *Adapter) GetLabels(c *gcli.Context, owner, repo string, max int) ([]gcli.Label, error) {
	rawurl := a.url("/projects/%s/labels", project(owner, repo))
	return fetchList(c, a, rawurl, max, func(body []byte) ([]gcli.Label, error) {
		var raw []Label
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_labels", Reason: err.Error()}
		}
		out := make([]gcli.Label, 0, len(raw))
		for _, l := range raw {
			out = append(out, normalizeLabel(l))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) CreateLabel(c *gcli.Context, owner, repo string, l gcli.Label) (gcli.Label, error) {
	payload := map[string]any{
		"name":        l.Name,
		"description": l.Description,
		"color":       ColorHex(l.Color),
	}
	var raw Label
	if err := a.do(c, http.MethodPost, a.url("/projects/%s/labels", project(owner, repo)), payload, &raw); err != nil {
		return gcli.Label{}, err
	}
	return normalizeLabel(raw), nil
}

func (a *Adapter) DeleteLabel(c *gcli.Context, owner, repo, name string) error {
	return a.do(c, http.MethodDelete, a.url("/projects/%s/labels/%s", project(owner, repo), transport.URLEncode(name)), nil, nil)
}

// --- Repos ---

func (a *Adapter) GetRepos(c *gcli.Context, owner string, max int) ([]gcli.Repo, error) {
	rawurl := a.url("/users/%s/projects", transport.URLEncode(owner))
	return fetchList(c, a, rawurl, max, parseProjects, nil)
}

func (a *Adapter) GetOwnRepos(c *gcli.Context, max int) ([]gcli.Repo, error) {
	rawurl := a.url("/projects?owned=true")
	return fetchList(c, a, rawurl, max, parseProjects, nil)
}

func parseProjects(body []byte) ([]gcli.Repo, error) {
	var raw []Project
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &gcli.DecodeError{Func: "gitlab.parse_projects", Reason: err.Error()}
	}
	out := make([]gcli.Repo, 0, len(raw))
	for _, p := range raw {
		out = append(out, normalizeProject(p))
	}
	return out, nil
}

func (a *Adapter) RepoCreate(c *gcli.Context, r gcli.RepoCreate) (gcli.Repo, error) {
	payload := map[string]any{
		"name":        r.Name,
		"description": r.Description,
		"visibility":  visibilityOf(r.Private),
	}
	var raw Project
	if err := a.do(c, http.MethodPost, a.url("/projects"), payload, &raw); err != nil {
		return gcli.Repo{}, err
	}
	return normalizeProject(raw), nil
}

func visibilityOf(private bool) string {
	if private {
		return "private"
	}
	return "public"
}

func (a *Adapter) RepoDelete(c *gcli.Context, owner, repo string) error {
	return a.do(c, http.MethodDelete, a.url("/projects/%s", project(owner, repo)), nil, nil)
}

func (a *Adapter) RepoSetVisibility(c *gcli.Context, owner, repo string, visibility string) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s", project(owner, repo)), map[string]any{"visibility": visibility}, nil)
}

// --- SSH keys ---

func (a *Adapter) GetSSHKeys(c *gcli.Context) ([]gcli.SSHKey, error) {
	rawurl := a.url("/user/keys")
	return fetchList(c, a, rawurl, -1, func(body []byte) ([]gcli.SSHKey, error) {
		var raw []SSHKey
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_sshkeys", Reason: err.Error()}
		}
		out := make([]gcli.SSHKey, 0, len(raw))
		for _, k := range raw {
			out = append(out, normalizeSSHKey(k))
		}
		return out, nil
	}, nil)
}

// AddSSHKey validates the key locally before submitting, mirroring the
// GitHub adapter's fail-fast behavior rather than relying on GitLab's
// 400 response to surface a malformed key.
func (a *Adapter) AddSSHKey(c *gcli.Context, title, key string) (gcli.SSHKey, error) {
	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
		return gcli.SSHKey{}, c.Fail(&gcli.InputError{Reason: "not a valid public key: " + err.Error()})
	}
	payload := map[string]any{"title": title, "key": key}
	var raw SSHKey
	if err := a.do(c, http.MethodPost, a.url("/user/keys"), payload, &raw); err != nil {
		return gcli.SSHKey{}, err
	}
	return normalizeSSHKey(raw), nil
}

func (a *Adapter) DeleteSSHKey(c *gcli.Context, id uint64) error {
	return a.do(c, http.MethodDelete, a.url("/user/keys/%d", id), nil, nil)
}

// --- Notifications ---

// GetNotifications maps onto GitLab's "todos" API, the closest analogue to
// GitHub's notification inbox.
func (a *Adapter) GetNotifications(c *gcli.Context, max int) ([]gcli.Notification, error) {
	rawurl := a.url("/todos")
	return fetchList(c, a, rawurl, max, func(body []byte) ([]gcli.Notification, error) {
		var raw []Todo
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_todos", Reason: err.Error()}
		}
		out := make([]gcli.Notification, 0, len(raw))
		for _, t := range raw {
			out = append(out, normalizeTodo(t))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) NotificationMarkAsRead(c *gcli.Context, id uint64) error {
	return a.do(c, http.MethodPost, a.url("/todos/%d/mark_as_done", id), nil, nil)
}
