// Package github adapts the Forge Abstraction Core to GitHub's REST API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
)

// DefaultAPIBase is GitHub's public REST API root. GitHub Enterprise
// deployments pass their own base URL to New.
const DefaultAPIBase = "https://api.github.com"

// Adapter implements gcli.Forge against the GitHub REST API.
type Adapter struct {
	gcli.UnimplementedForge

	APIBase string
	tr      *transport.Client
}

// New builds a GitHub adapter. If apiBase is empty, DefaultAPIBase is used.
func New(apiBase, token string, httpClient *http.Client) *Adapter {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	a := &Adapter{
		UnimplementedForge: gcli.UnimplementedForge{ForgeType: gcli.ForgeGitHub},
		APIBase:            strings.TrimRight(apiBase, "/"),
	}
	a.tr = transport.New(a.APIBase, a.MakeAuthHeader(token), "gcli/1.0", httpClient, a.GetAPIErrorString)
	return a
}

// MakeAuthHeader builds GitHub's token-scheme Authorization header value.
func (a *Adapter) MakeAuthHeader(token string) string {
	if token == "" {
		return ""
	}
	return "token " + token
}

// GetAPIErrorString extracts the diagnostic message from a GitHub API error
// envelope.
func (a *Adapter) GetAPIErrorString(body []byte) string {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		return strings.TrimSpace(string(body))
	}
	if len(apiErr.Errors) == 0 {
		return apiErr.Message
	}
	parts := make([]string, 0, len(apiErr.Errors))
	for _, e := range apiErr.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return fmt.Sprintf("%s (%s)", apiErr.Message, strings.Join(parts, "; "))
}

// UserObjectKey names GitHub's user-identifier JSON field.
func (a *Adapter) UserObjectKey() string { return "login" }

// Quirks reports GitHub's declared gaps: no product/component split, no
// dedicated issue URL field, no bug-tracker-style attachments, no coverage
// or automerge status on pulls, and no expiry/due-date/pull-count on
// milestones.
func (a *Adapter) Quirks() gcli.Quirks {
	return gcli.Quirks{
		Issue:     gcli.IssueQuirkProdComp | gcli.IssueQuirkURL | gcli.IssueQuirkAttachments,
		Pull:      gcli.PullQuirkCoverage | gcli.PullQuirkAutomerge,
		Milestone: gcli.MilestoneQuirkExpired | gcli.MilestoneQuirkDueDate | gcli.MilestoneQuirkPulls,
	}
}

func (a *Adapter) url(format string, args ...any) string {
	return a.APIBase + fmt.Sprintf(format, args...)
}

func marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &gcli.EncodeError{Reason: err.Error()}
	}
	return b, nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func (a *Adapter) stdctx(c *gcli.Context) context.Context {
	return context.Background()
}

func (a *Adapter) get(c *gcli.Context, url string, out any) error {
	body, _, err := a.tr.Fetch(a.stdctx(c), url)
	if err != nil {
		return c.Fail(err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.Fail(&gcli.DecodeError{Func: "github.get", Reason: err.Error()})
	}
	return nil
}

func (a *Adapter) do(c *gcli.Context, method, url string, payload any, out any) error {
	var raw []byte
	if payload != nil {
		var err error
		raw, err = marshal(payload)
		if err != nil {
			return c.Fail(err)
		}
	}
	body, _, err := a.tr.FetchWithMethod(a.stdctx(c), method, url, raw)
	if err != nil {
		return c.Fail(err)
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.Fail(&gcli.DecodeError{Func: "github.do", Reason: err.Error()})
	}
	return nil
}

func encodeOwnerRepo(owner, repo string) (string, string) {
	return transport.URLEncode(owner), transport.URLEncode(repo)
}

// fetchList drives transport.FetchList and routes any failure through the
// context's error slot, matching the original library's gcli_error calls at
// every backend entry point.
func fetchList[T any](c *gcli.Context, a *Adapter, rawurl string, max int, parse func([]byte) ([]T, error), filter func([]T) []T) ([]T, error) {
	out, err := transport.FetchList(a.stdctx(c), a.tr, rawurl, max, parse, filter)
	if err != nil {
		return nil, c.Fail(err)
	}
	return out, nil
}

// --- Comments ---

func (a *Adapter) GetIssueComments(c *gcli.Context, owner, repo string, issue uint64) ([]gcli.Comment, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	url := a.url("/repos/%s/%s/issues/%d/comments", eo, er, issue)
	return fetchList(c, a, url, -1, parseComments, nil)
}

func (a *Adapter) GetPullComments(c *gcli.Context, owner, repo string, pull int) ([]gcli.Comment, error) {
	return a.GetIssueComments(c, owner, repo, uint64(pull))
}

func parseComments(body []byte) ([]gcli.Comment, error) {
	var raw []Comment
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &gcli.DecodeError{Func: "github.parse_comments", Reason: err.Error()}
	}
	out := make([]gcli.Comment, 0, len(raw))
	for _, rc := range raw {
		out = append(out, normalizeComment(rc))
	}
	return out, nil
}

func (a *Adapter) SubmitComment(c *gcli.Context, owner, repo string, target gcli.CommentTarget, id uint64, body string) (gcli.Comment, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	var result Comment
	err := a.do(c, http.MethodPost, a.url("/repos/%s/%s/issues/%d/comments", eo, er, id), CommentRequest{Body: body}, &result)
	if err != nil {
		return gcli.Comment{}, err
	}
	return normalizeComment(result), nil
}

// --- Forks ---

func (a *Adapter) GetForks(c *gcli.Context, owner, repo string, max int) ([]gcli.Fork, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	url := a.url("/repos/%s/%s/forks", eo, er)
	return fetchList(c, a, url, max, parseForks, nil)
}

func parseForks(body []byte) ([]gcli.Fork, error) {
	var raw []Repository
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &gcli.DecodeError{Func: "github.parse_forks", Reason: err.Error()}
	}
	out := make([]gcli.Fork, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalizeFork(r))
	}
	return out, nil
}

func (a *Adapter) ForkCreate(c *gcli.Context, owner, repo, into string) (gcli.Repo, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	payload := map[string]string{}
	if into != "" {
		payload["organization"] = into
	}
	var result Repository
	if err := a.do(c, http.MethodPost, a.url("/repos/%s/%s/forks", eo, er), payload, &result); err != nil {
		return gcli.Repo{}, err
	}
	return normalizeRepo(result), nil
}
