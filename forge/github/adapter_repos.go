package github

import (
	"encoding/json"
	"net/http"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
	"golang.org/x/crypto/ssh"
)

func (a *Adapter) GetRepos(c *gcli.Context, owner string, max int) ([]gcli.Repo, error) {
	rawurl := a.url("/users/%s/repos", transport.URLEncode(owner))
	return fetchList(c, a, rawurl, max, parseRepos, nil)
}

func (a *Adapter) GetOwnRepos(c *gcli.Context, max int) ([]gcli.Repo, error) {
	rawurl := a.url("/user/repos")
	return fetchList(c, a, rawurl, max, parseRepos, nil)
}

func parseRepos(body []byte) ([]gcli.Repo, error) {
	var raw []Repository
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &gcli.DecodeError{Func: "github.parse_repos", Reason: err.Error()}
	}
	out := make([]gcli.Repo, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalizeRepo(r))
	}
	return out, nil
}

func (a *Adapter) RepoCreate(c *gcli.Context, r gcli.RepoCreate) (gcli.Repo, error) {
	req := RepositoryRequest{Name: r.Name, Description: r.Description, Private: r.Private}
	var raw Repository
	if err := a.do(c, http.MethodPost, a.url("/user/repos"), req, &raw); err != nil {
		return gcli.Repo{}, err
	}
	return normalizeRepo(raw), nil
}

func (a *Adapter) RepoDelete(c *gcli.Context, owner, repo string) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodDelete, a.url("/repos/%s/%s", eo, er), nil, nil)
}

func (a *Adapter) RepoSetVisibility(c *gcli.Context, owner, repo string, visibility string) error {
	eo, er := encodeOwnerRepo(owner, repo)
	payload := map[string]bool{"private": visibility == "private"}
	return a.do(c, http.MethodPatch, a.url("/repos/%s/%s", eo, er), payload, nil)
}

// --- SSH keys ---

func (a *Adapter) GetSSHKeys(c *gcli.Context) ([]gcli.SSHKey, error) {
	rawurl := a.url("/user/keys")
	return fetchList(c, a, rawurl, -1, func(body []byte) ([]gcli.SSHKey, error) {
		var raw []SSHKey
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "github.parse_sshkeys", Reason: err.Error()}
		}
		out := make([]gcli.SSHKey, 0, len(raw))
		for _, k := range raw {
			out = append(out, normalizeSSHKey(k))
		}
		return out, nil
	}, nil)
}

// AddSSHKey validates the key material locally with x/crypto/ssh before
// ever making a request: a malformed key fails fast as an *gcli.InputError
// instead of surfacing as a confusing 422 from GitHub.
func (a *Adapter) AddSSHKey(c *gcli.Context, title, key string) (gcli.SSHKey, error) {
	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
		return gcli.SSHKey{}, c.Fail(&gcli.InputError{Reason: "not a valid public key: " + err.Error()})
	}
	req := SSHKeyRequest{Title: title, Key: key}
	var raw SSHKey
	if err := a.do(c, http.MethodPost, a.url("/user/keys"), req, &raw); err != nil {
		return gcli.SSHKey{}, err
	}
	return normalizeSSHKey(raw), nil
}

func (a *Adapter) DeleteSSHKey(c *gcli.Context, id uint64) error {
	return a.do(c, http.MethodDelete, a.url("/user/keys/%d", id), nil, nil)
}

// --- Notifications ---

func (a *Adapter) GetNotifications(c *gcli.Context, max int) ([]gcli.Notification, error) {
	rawurl := a.url("/notifications")
	return fetchList(c, a, rawurl, max, func(body []byte) ([]gcli.Notification, error) {
		var raw []Notification
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "github.parse_notifications", Reason: err.Error()}
		}
		out := make([]gcli.Notification, 0, len(raw))
		for _, n := range raw {
			out = append(out, normalizeNotification(n))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) NotificationMarkAsRead(c *gcli.Context, id uint64) error {
	return a.do(c, http.MethodPatch, a.url("/notifications/threads/%d", id), nil, nil)
}
