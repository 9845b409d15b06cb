package bugzilla

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
	"github.com/tidwall/gjson"
)

func stdctx(c *gcli.Context) context.Context { return context.Background() }

// Adapter implements gcli.Forge against a Bugzilla REST API instance.
// Bugzilla's domain is bugs only: pulls, releases, labels, repos, SSH keys,
// forks and notifications all fall through to UnimplementedForge.
type Adapter struct {
	gcli.UnimplementedForge

	APIBase string
	tr      *transport.Client
}

// New builds a Bugzilla adapter against apiBase, e.g.
// "https://bugzilla.mozilla.org".
func New(apiBase, token string, httpClient *http.Client) *Adapter {
	a := &Adapter{
		UnimplementedForge: gcli.UnimplementedForge{ForgeType: gcli.ForgeBugzilla},
		APIBase:            apiBase,
	}
	a.tr = transport.New(a.APIBase, a.MakeAuthHeader(token), "gcli/1.0", httpClient, a.GetAPIErrorString)
	return a
}

// MakeAuthHeader uses Bugzilla's API-key bearer scheme.
func (a *Adapter) MakeAuthHeader(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

func (a *Adapter) GetAPIErrorString(body []byte) string {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		return string(body)
	}
	return apiErr.Message
}

func (a *Adapter) UserObjectKey() string { return "creator" }

func (a *Adapter) Quirks() gcli.Quirks {
	return gcli.Quirks{Issue: gcli.IssueQuirkComments | gcli.IssueQuirkLocked}
}

func (a *Adapter) url(format string, args ...any) string {
	return a.APIBase + fmt.Sprintf(format, args...)
}

func (a *Adapter) get(c *gcli.Context, u string) ([]byte, error) {
	body, _, err := a.tr.Fetch(stdctx(c), u)
	if err != nil {
		return nil, c.Fail(err)
	}
	return body, nil
}

func (a *Adapter) do(c *gcli.Context, method, u string, payload any) ([]byte, error) {
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, c.Fail(&gcli.EncodeError{Reason: err.Error()})
		}
		raw = b
	}
	body, _, err := a.tr.FetchWithMethod(stdctx(c), method, u, raw)
	if err != nil {
		return nil, c.Fail(err)
	}
	return body, nil
}

// SearchIssues maps onto Bugzilla's /rest/bug search endpoint. Bugzilla has
// no notion of open-ended pagination the way GitHub/GitLab do, so max is
// applied directly as the limit= parameter rather than through FetchList.
func (a *Adapter) SearchIssues(c *gcli.Context, owner, repo string, filter gcli.IssueFilter, max int) ([]gcli.Issue, error) {
	values := url.Values{}
	values.Set("order", "bug_id DESC")
	if max > 0 {
		values.Set("limit", strconv.Itoa(max))
	}
	if filter.All {
		values.Set("status", "All")
	} else {
		values.Add("status", "Open")
		values.Add("status", "New")
	}
	if filter.Product != "" {
		values.Set("product", filter.Product)
	}
	if filter.Component != "" {
		values.Set("component", filter.Component)
	}
	if filter.Author != "" {
		values.Set("creator", filter.Author)
	}
	body, err := a.get(c, transport.AddOptions(a.url("/rest/bug"), values))
	if err != nil {
		return nil, err
	}
	var resp BugsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, c.Fail(&gcli.DecodeError{Func: "bugzilla.parse_bugs", Reason: err.Error()})
	}
	out := make([]gcli.Issue, 0, len(resp.Bugs))
	for _, b := range resp.Bugs {
		out = append(out, normalizeBug(b))
	}
	return out, nil
}

// GetIssueSummary fetches the bug record, then separately fetches its
// comment list to fill Body from the first comment — Bugzilla stores a
// bug's original-post text as comment #0, not a field on the bug itself.
func (a *Adapter) GetIssueSummary(c *gcli.Context, owner, repo string, number uint64) (gcli.Issue, error) {
	body, err := a.get(c, a.url("/rest/bug?limit=1&id=%d", number))
	if err != nil {
		return gcli.Issue{}, err
	}
	var resp BugsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return gcli.Issue{}, c.Fail(&gcli.DecodeError{Func: "bugzilla.parse_bugs", Reason: err.Error()})
	}
	if len(resp.Bugs) == 0 {
		return gcli.Issue{}, c.Fail(&gcli.InputError{Reason: fmt.Sprintf("no bug with id %d", number)})
	}
	issue := normalizeBug(resp.Bugs[0])

	op, err := a.BodyFromComments(c, number)
	if err != nil {
		return issue, err
	}
	issue.Body = op
	return issue, nil
}

func (a *Adapter) commentsBody(c *gcli.Context, bugID uint64) ([]byte, error) {
	return a.get(c, a.url("/rest/bug/%d/comment?include_fields=_all", bugID))
}

// CommentsSkippingBody returns every comment on the bug except comment #0
// (the original post), matching
// parse_bugzilla_comments_array_skip_first's behavior.
func (a *Adapter) CommentsSkippingBody(c *gcli.Context, bugID uint64) ([]gcli.Comment, error) {
	body, err := a.commentsBody(c, bugID)
	if err != nil {
		return nil, err
	}
	arr := gjson.GetBytes(body, fmt.Sprintf("bugs.%d.comments", bugID))
	if !arr.Exists() {
		return nil, c.Fail(&gcli.DecodeError{Func: "bugzilla.parse_comments", Reason: "missing comments dictionary"})
	}
	items := arr.Array()
	out := make([]gcli.Comment, 0, len(items))
	for i, item := range items {
		if i == 0 {
			continue
		}
		out = append(out, commentFromResult(item))
	}
	return out, nil
}

// BodyFromComments returns comment #0's text, the bug's original post.
func (a *Adapter) BodyFromComments(c *gcli.Context, bugID uint64) (string, error) {
	body, err := a.commentsBody(c, bugID)
	if err != nil {
		return "", err
	}
	arr := gjson.GetBytes(body, fmt.Sprintf("bugs.%d.comments", bugID))
	if !arr.Exists() || len(arr.Array()) == 0 {
		return "", c.Fail(&gcli.DecodeError{Func: "bugzilla.parse_comments", Reason: "missing comments dictionary"})
	}
	return arr.Array()[0].Get("text").String(), nil
}

func commentFromResult(r gjson.Result) gcli.Comment {
	t, _ := time.Parse(time.RFC3339, r.Get("time").String())
	return gcli.Comment{
		ID:     uint64(r.Get("id").Int()),
		Author: r.Get("creator").String(),
		Date:   t,
		Body:   r.Get("text").String(),
	}
}

func (a *Adapter) GetIssueComments(c *gcli.Context, owner, repo string, issue uint64) ([]gcli.Comment, error) {
	return a.CommentsSkippingBody(c, issue)
}

func (a *Adapter) SubmitComment(c *gcli.Context, owner, repo string, target gcli.CommentTarget, id uint64, body string) (gcli.Comment, error) {
	if target == gcli.CommentTargetPull {
		return gcli.Comment{}, c.Fail(&gcli.DispatchError{Op: "submit_comment (pull)", Backend: gcli.ForgeBugzilla})
	}
	if _, err := a.do(c, http.MethodPost, a.url("/rest/bug/%d/comment", id), map[string]string{"comment": body}); err != nil {
		return gcli.Comment{}, err
	}
	return gcli.Comment{Body: body}, nil
}

// GetIssueAttachments unwraps the per-bug attachments dictionary the same
// way the comments dictionary is unwrapped: gjson skips the synthetic
// top-level bug-ID key and takes the array beneath it.
func (a *Adapter) GetIssueAttachments(c *gcli.Context, owner, repo string, number uint64) ([]gcli.Attachment, error) {
	body, err := a.get(c, a.url("/rest/bug/%d/attachment", number))
	if err != nil {
		return nil, err
	}
	arr := gjson.GetBytes(body, fmt.Sprintf("bugs.%d", number))
	if !arr.Exists() {
		return nil, c.Fail(&gcli.DecodeError{Func: "bugzilla.parse_attachments", Reason: "missing attachments dictionary"})
	}
	items := arr.Array()
	out := make([]gcli.Attachment, 0, len(items))
	for _, item := range items {
		t, _ := time.Parse(time.RFC3339, item.Get("creation_time").String())
		out = append(out, gcli.Attachment{
			ID:          uint64(item.Get("id").Int()),
			Author:      item.Get("creator").String(),
			CreatedAt:   t,
			FileName:    item.Get("file_name").String(),
			Summary:     item.Get("summary").String(),
			ContentType: item.Get("content_type").String(),
			IsObsolete:  item.Get("is_obsolete").Bool(),
		})
	}
	return out, nil
}

// AttachmentGetContent fetches a single attachment by its ID, requesting
// the base64 "data" field Bugzilla omits by default from list responses,
// and writes the decoded content to w.
func (a *Adapter) AttachmentGetContent(c *gcli.Context, owner, repo string, id uint64, w io.Writer) error {
	body, err := a.get(c, a.url("/rest/bug/attachment/%d?include_fields=data", id))
	if err != nil {
		return err
	}
	encoded := gjson.GetBytes(body, fmt.Sprintf("attachments.%d.data", id))
	if !encoded.Exists() {
		return c.Fail(&gcli.DecodeError{Func: "bugzilla.attachment_get_content", Reason: "missing attachment data"})
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded.String())
	if err != nil {
		return c.Fail(&gcli.DecodeError{Func: "bugzilla.attachment_get_content", Reason: err.Error()})
	}
	if _, err := w.Write(decoded); err != nil {
		return c.Fail(err)
	}
	return nil
}

func (a *Adapter) patchBug(c *gcli.Context, id uint64, payload map[string]any) error {
	_, err := a.do(c, http.MethodPut, a.url("/rest/bug/%d", id), payload)
	return err
}

func (a *Adapter) IssueClose(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchBug(c, number, map[string]any{"status": "RESOLVED", "resolution": "FIXED"})
}

func (a *Adapter) IssueReopen(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchBug(c, number, map[string]any{"status": "REOPENED"})
}

func (a *Adapter) IssueAssign(c *gcli.Context, owner, repo string, number uint64, assignee string) error {
	return a.patchBug(c, number, map[string]any{"assigned_to": assignee})
}

func (a *Adapter) IssueAddLabels(c *gcli.Context, owner, repo string, number uint64, labels []string) error {
	return a.patchBug(c, number, map[string]any{"keywords": map[string]any{"add": labels}})
}

func (a *Adapter) IssueRemoveLabels(c *gcli.Context, owner, repo string, number uint64, labels []string) error {
	if len(labels) == 0 {
		return c.Fail(&gcli.InputError{Reason: "issue_remove_labels requires at least one label"})
	}
	return a.patchBug(c, number, map[string]any{"keywords": map[string]any{"remove": labels}})
}

func (a *Adapter) IssueSetTitle(c *gcli.Context, owner, repo string, number uint64, title string) error {
	return a.patchBug(c, number, map[string]any{"summary": title})
}

func (a *Adapter) IssueSetMilestone(c *gcli.Context, owner, repo string, number uint64, milestone uint64) error {
	return c.Fail(&gcli.DispatchError{Op: "issue_set_milestone", Backend: gcli.ForgeBugzilla})
}

func (a *Adapter) IssueClearMilestone(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchBug(c, number, map[string]any{"target_milestone": "---"})
}

func (a *Adapter) SubmitIssue(c *gcli.Context, owner, repo string, create gcli.IssueCreate) (gcli.Issue, error) {
	payload := map[string]any{
		"product":   owner,
		"component": repo,
		"summary":   create.Title,
		"description": create.Body,
	}
	body, err := a.do(c, http.MethodPost, a.url("/rest/bug"), payload)
	if err != nil {
		return gcli.Issue{}, err
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return gcli.Issue{}, c.Fail(&gcli.DecodeError{Func: "bugzilla.submit_issue", Reason: err.Error()})
	}
	return a.GetIssueSummary(c, owner, repo, uint64(created.ID))
}
