package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
)

func stdctx(c *gcli.Context) context.Context { return context.Background() }

// DefaultAPIBase is GitLab's public REST API root under gitlab.com.
const DefaultAPIBase = "https://gitlab.com/api/v4"

// Adapter implements gcli.Forge against the GitLab REST API.
type Adapter struct {
	gcli.UnimplementedForge

	APIBase string
	tr      *transport.Client
}

// New builds a GitLab adapter. If apiBase is empty, DefaultAPIBase is used.
func New(apiBase, token string, httpClient *http.Client) *Adapter {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	a := &Adapter{
		UnimplementedForge: gcli.UnimplementedForge{ForgeType: gcli.ForgeGitLab},
		APIBase:            apiBase,
	}
	a.tr = transport.New(a.APIBase, a.MakeAuthHeader(token), "gcli/1.0", httpClient, a.GetAPIErrorString)
	return a
}

func (a *Adapter) MakeAuthHeader(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

func (a *Adapter) GetAPIErrorString(body []byte) string {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return string(body)
	}
	if apiErr.Error != "" {
		return apiErr.Error
	}
	if s, ok := apiErr.Message.(string); ok && s != "" {
		return s
	}
	b, _ := json.Marshal(apiErr.Message)
	return string(b)
}

func (a *Adapter) UserObjectKey() string { return "username" }

func (a *Adapter) Quirks() gcli.Quirks {
	return gcli.Quirks{
		Issue:     gcli.IssueQuirkProdComp | gcli.IssueQuirkURL | gcli.IssueQuirkAttachments,
		Pull:      gcli.PullQuirkAddDel | gcli.PullQuirkCommits | gcli.PullQuirkChanges | gcli.PullQuirkMerged,
		Milestone: gcli.MilestoneQuirkNIssues,
	}
}

func (a *Adapter) url(format string, args ...any) string {
	return a.APIBase + fmt.Sprintf(format, args...)
}

func project(owner, repo string) string {
	return transport.URLEncode(owner + "/" + repo)
}

func (a *Adapter) get(c *gcli.Context, u string, out any) error {
	body, _, err := a.tr.Fetch(stdctx(c), u)
	if err != nil {
		return c.Fail(err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.Fail(&gcli.DecodeError{Func: "gitlab.get", Reason: err.Error()})
	}
	return nil
}

func (a *Adapter) do(c *gcli.Context, method, u string, payload any, out any) error {
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return c.Fail(&gcli.EncodeError{Reason: err.Error()})
		}
		raw = b
	}
	body, _, err := a.tr.FetchWithMethod(stdctx(c), method, u, raw)
	if err != nil {
		return c.Fail(err)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.Fail(&gcli.DecodeError{Func: "gitlab.do", Reason: err.Error()})
	}
	return nil
}

func fetchList[T any](c *gcli.Context, a *Adapter, u string, max int, parse func([]byte) ([]T, error), filter func([]T) []T) ([]T, error) {
	out, err := transport.FetchList(stdctx(c), a.tr, u, max, parse, filter)
	if err != nil {
		return nil, c.Fail(err)
	}
	return out, nil
}

// --- Comments ---

func (a *Adapter) notesURL(owner, repo string, kind string, id uint64) string {
	return a.url("/projects/%s/%s/%d/notes", project(owner, repo), kind, id)
}

func (a *Adapter) GetIssueComments(c *gcli.Context, owner, repo string, issue uint64) ([]gcli.Comment, error) {
	return fetchList(c, a, a.notesURL(owner, repo, "issues", issue), -1, parseNotes, nil)
}

func (a *Adapter) GetPullComments(c *gcli.Context, owner, repo string, pull int) ([]gcli.Comment, error) {
	return fetchList(c, a, a.notesURL(owner, repo, "merge_requests", uint64(pull)), -1, parseNotes, nil)
}

func parseNotes(body []byte) ([]gcli.Comment, error) {
	var raw []Note
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &gcli.DecodeError{Func: "gitlab.parse_notes", Reason: err.Error()}
	}
	out := make([]gcli.Comment, 0, len(raw))
	for _, n := range raw {
		if n.System {
			continue
		}
		out = append(out, normalizeNote(n))
	}
	return out, nil
}

func (a *Adapter) SubmitComment(c *gcli.Context, owner, repo string, target gcli.CommentTarget, id uint64, body string) (gcli.Comment, error) {
	kind := "issues"
	if target == gcli.CommentTargetPull {
		kind = "merge_requests"
	}
	var raw Note
	if err := a.do(c, http.MethodPost, a.notesURL(owner, repo, kind, id), map[string]string{"body": body}, &raw); err != nil {
		return gcli.Comment{}, err
	}
	return normalizeNote(raw), nil
}

// --- Forks ---

func (a *Adapter) GetForks(c *gcli.Context, owner, repo string, max int) ([]gcli.Fork, error) {
	u := a.url("/projects/%s/forks", project(owner, repo))
	return fetchList(c, a, u, max, func(body []byte) ([]gcli.Fork, error) {
		var raw []Project
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_forks", Reason: err.Error()}
		}
		out := make([]gcli.Fork, 0, len(raw))
		for _, p := range raw {
			out = append(out, normalizeFork(p))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) ForkCreate(c *gcli.Context, owner, repo, into string) (gcli.Repo, error) {
	payload := map[string]string{}
	if into != "" {
		payload["namespace"] = into
	}
	var raw Project
	if err := a.do(c, http.MethodPost, a.url("/projects/%s/fork", project(owner, repo)), payload, &raw); err != nil {
		return gcli.Repo{}, err
	}
	return normalizeProject(raw), nil
}

// --- Issues ---

func (a *Adapter) SearchIssues(c *gcli.Context, owner, repo string, filter gcli.IssueFilter, max int) ([]gcli.Issue, error) {
	u := a.url("/projects/%s/issues", project(owner, repo))
	values := url.Values{}
	if filter.State != "" && filter.State != "all" {
		values.Set("state", filter.State)
	}
	if filter.Author != "" {
		values.Set("author_username", filter.Author)
	}
	if filter.Assignee != "" {
		values.Set("assignee_username", filter.Assignee)
	}
	if filter.Milestone != "" {
		values.Set("milestone", filter.Milestone)
	}
	if len(filter.Labels) > 0 {
		values.Set("labels", joinComma(filter.Labels))
	}
	u = transport.AddOptions(u, values)
	return fetchList(c, a, u, max, func(body []byte) ([]gcli.Issue, error) {
		var raw []Issue
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_issues", Reason: err.Error()}
		}
		out := make([]gcli.Issue, 0, len(raw))
		for _, i := range raw {
			out = append(out, normalizeIssue(i))
		}
		return out, nil
	}, nil)
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

func (a *Adapter) GetIssueSummary(c *gcli.Context, owner, repo string, number uint64) (gcli.Issue, error) {
	var raw Issue
	if err := a.get(c, a.url("/projects/%s/issues/%d", project(owner, repo), number), &raw); err != nil {
		return gcli.Issue{}, err
	}
	return normalizeIssue(raw), nil
}

func (a *Adapter) GetIssueAttachments(c *gcli.Context, owner, repo string, number uint64) ([]gcli.Attachment, error) {
	return nil, c.Fail(&gcli.DispatchError{Op: "get_issue_attachments", Backend: gcli.ForgeGitLab})
}

func (a *Adapter) patchIssue(c *gcli.Context, owner, repo string, number uint64, payload map[string]any) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/issues/%d", project(owner, repo), number), payload, nil)
}

func (a *Adapter) IssueClose(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchIssue(c, owner, repo, number, map[string]any{"state_event": "close"})
}

func (a *Adapter) IssueReopen(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchIssue(c, owner, repo, number, map[string]any{"state_event": "reopen"})
}

func (a *Adapter) IssueAssign(c *gcli.Context, owner, repo string, number uint64, assignee string) error {
	return a.patchIssue(c, owner, repo, number, map[string]any{"assignee_ids": []string{assignee}})
}

func (a *Adapter) IssueAddLabels(c *gcli.Context, owner, repo string, number uint64, labels []string) error {
	return a.patchIssue(c, owner, repo, number, map[string]any{"add_labels": joinComma(labels)})
}

func (a *Adapter) IssueRemoveLabels(c *gcli.Context, owner, repo string, number uint64, labels []string) error {
	if len(labels) == 0 {
		return c.Fail(&gcli.InputError{Reason: "issue_remove_labels requires at least one label"})
	}
	return a.patchIssue(c, owner, repo, number, map[string]any{"remove_labels": joinComma(labels)})
}

func (a *Adapter) SubmitIssue(c *gcli.Context, owner, repo string, create gcli.IssueCreate) (gcli.Issue, error) {
	payload := map[string]any{"title": create.Title, "description": create.Body}
	if len(create.Labels) > 0 {
		payload["labels"] = joinComma(create.Labels)
	}
	var raw Issue
	if err := a.do(c, http.MethodPost, a.url("/projects/%s/issues", project(owner, repo)), payload, &raw); err != nil {
		return gcli.Issue{}, err
	}
	return normalizeIssue(raw), nil
}

func (a *Adapter) IssueSetTitle(c *gcli.Context, owner, repo string, number uint64, title string) error {
	return a.patchIssue(c, owner, repo, number, map[string]any{"title": title})
}

func (a *Adapter) IssueSetMilestone(c *gcli.Context, owner, repo string, number uint64, milestone uint64) error {
	return a.patchIssue(c, owner, repo, number, map[string]any{"milestone_id": milestone})
}

// IssueClearMilestone sends milestone_id: null, not 0 — GitLab treats 0 as
// "milestone with ID zero" rather than "no milestone".
func (a *Adapter) IssueClearMilestone(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchIssue(c, owner, repo, number, map[string]any{"milestone_id": nil})
}

func (a *Adapter) AttachmentGetContent(c *gcli.Context, owner, repo string, id uint64, w io.Writer) error {
	return c.Fail(&gcli.DispatchError{Op: "attachment_get_content", Backend: gcli.ForgeGitLab})
}

// --- Milestones ---

func (a *Adapter) GetMilestones(c *gcli.Context, owner, repo string, max int) ([]gcli.Milestone, error) {
	u := a.url("/projects/%s/milestones", project(owner, repo))
	return fetchList(c, a, u, max, func(body []byte) ([]gcli.Milestone, error) {
		var raw []Milestone
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_milestones", Reason: err.Error()}
		}
		out := make([]gcli.Milestone, 0, len(raw))
		for _, m := range raw {
			out = append(out, normalizeMilestone(m))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) GetMilestone(c *gcli.Context, owner, repo string, id uint64) (gcli.Milestone, error) {
	var raw Milestone
	if err := a.get(c, a.url("/projects/%s/milestones/%d", project(owner, repo), id), &raw); err != nil {
		return gcli.Milestone{}, err
	}
	return normalizeMilestone(raw), nil
}

func (a *Adapter) CreateMilestone(c *gcli.Context, owner, repo string, m gcli.MilestoneCreate) (gcli.Milestone, error) {
	payload := map[string]any{"title": m.Title, "description": m.Description}
	if m.DueDate != nil {
		payload["due_date"] = m.DueDate.Format("2006-01-02")
	}
	var raw Milestone
	if err := a.do(c, http.MethodPost, a.url("/projects/%s/milestones", project(owner, repo)), payload, &raw); err != nil {
		return gcli.Milestone{}, err
	}
	return normalizeMilestone(raw), nil
}

func (a *Adapter) DeleteMilestone(c *gcli.Context, owner, repo string, id uint64) error {
	return a.do(c, http.MethodDelete, a.url("/projects/%s/milestones/%d", project(owner, repo), id), nil, nil)
}

func (a *Adapter) MilestoneSetDuedate(c *gcli.Context, owner, repo string, id uint64, due time.Time) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/milestones/%d", project(owner, repo), id), map[string]any{"due_date": due.Format("2006-01-02")}, nil)
}

func (a *Adapter) GetMilestoneIssues(c *gcli.Context, owner, repo string, id uint64) ([]gcli.Issue, error) {
	return fetchList(c, a, a.url("/projects/%s/milestones/%d/issues", project(owner, repo), id), -1, func(body []byte) ([]gcli.Issue, error) {
		var raw []Issue
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_milestone_issues", Reason: err.Error()}
		}
		out := make([]gcli.Issue, 0, len(raw))
		for _, i := range raw {
			out = append(out, normalizeIssue(i))
		}
		return out, nil
	}, nil)
}
