package github

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
)

// issueSearchOptions is the query-string shape for GET /repos/{o}/{r}/issues,
// encoded via go-querystring the way the teacher's own ListOptions-derived
// request params are.
type issueSearchOptions struct {
	State     string `url:"state,omitempty"`
	Creator   string `url:"creator,omitempty"`
	Assignee  string `url:"assignee,omitempty"`
	Milestone string `url:"milestone,omitempty"`
	Labels    string `url:"labels,omitempty"`
}

func parseIssues(body []byte) ([]gcli.Issue, error) {
	var raw []Issue
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &gcli.DecodeError{Func: "github.parse_issues", Reason: err.Error()}
	}
	out := make([]gcli.Issue, 0, len(raw))
	for _, ri := range raw {
		out = append(out, normalizeIssue(ri))
	}
	return out, nil
}

func (a *Adapter) SearchIssues(c *gcli.Context, owner, repo string, filter gcli.IssueFilter, max int) ([]gcli.Issue, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	rawurl := a.url("/repos/%s/%s/issues", eo, er)

	state := filter.State
	if state == "" {
		state = "open"
	}
	opts := issueSearchOptions{
		State:     state,
		Creator:   filter.Author,
		Assignee:  filter.Assignee,
		Milestone: filter.Milestone,
		Labels:    strings.Join(filter.Labels, ","),
	}
	values, err := query.Values(opts)
	if err != nil {
		return nil, c.Fail(&gcli.EncodeError{Reason: err.Error()})
	}
	rawurl = transport.AddOptions(rawurl, values)

	// GitHub's issues endpoint returns pull requests interleaved with real
	// issues; the post-page filter strips them on every accumulated page,
	// matching the C adapter's single post-fetch compaction pass extended
	// across pagination.
	return fetchList(c, a, rawurl, max, parseIssues, filterOutPullRequests)
}

func (a *Adapter) GetIssueSummary(c *gcli.Context, owner, repo string, number uint64) (gcli.Issue, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	var raw Issue
	if err := a.get(c, a.url("/repos/%s/%s/issues/%d", eo, er, number), &raw); err != nil {
		return gcli.Issue{}, err
	}
	return normalizeIssue(raw), nil
}

// GetIssueAttachments always fails: GitHub issues carry no attachment API
// distinct from inline markdown links, so this operation is a declared gap
// (see Quirks).
func (a *Adapter) GetIssueAttachments(c *gcli.Context, owner, repo string, number uint64) ([]gcli.Attachment, error) {
	return nil, c.Fail(&gcli.DispatchError{Op: "get_issue_attachments", Backend: a.ForgeType})
}

func (a *Adapter) patchIssue(c *gcli.Context, owner, repo string, number uint64, req any) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodPatch, a.url("/repos/%s/%s/issues/%d", eo, er, number), req, nil)
}

func (a *Adapter) IssueClose(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchIssue(c, owner, repo, number, IssueRequest{State: strPtr("closed")})
}

func (a *Adapter) IssueReopen(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchIssue(c, owner, repo, number, IssueRequest{State: strPtr("open")})
}

func (a *Adapter) IssueAssign(c *gcli.Context, owner, repo string, number uint64, assignee string) error {
	return a.patchIssue(c, owner, repo, number, IssueRequest{Assignees: &[]string{assignee}})
}

func (a *Adapter) IssueAddLabels(c *gcli.Context, owner, repo string, number uint64, labels []string) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodPost, a.url("/repos/%s/%s/issues/%d/labels", eo, er, number), labels, nil)
}

// IssueRemoveLabels issues one DELETE per label: GitHub's API has no bulk
// removal endpoint. A caller passing zero labels gets an *gcli.InputError,
// matching spec.md's requirement that every quirk surface a typed error
// rather than silently no-op.
func (a *Adapter) IssueRemoveLabels(c *gcli.Context, owner, repo string, number uint64, labels []string) error {
	if len(labels) == 0 {
		return c.Fail(&gcli.InputError{Reason: "issue_remove_labels requires at least one label"})
	}
	eo, er := encodeOwnerRepo(owner, repo)
	for _, l := range labels {
		rawurl := a.url("/repos/%s/%s/issues/%d/labels/%s", eo, er, number, transport.URLEncode(l))
		if err := a.do(c, http.MethodDelete, rawurl, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) SubmitIssue(c *gcli.Context, owner, repo string, create gcli.IssueCreate) (gcli.Issue, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	req := IssueRequest{Title: strPtr(create.Title), Body: strPtr(create.Body)}
	if len(create.Labels) > 0 {
		req.Labels = &create.Labels
	}
	if len(create.Assignees) > 0 {
		req.Assignees = &create.Assignees
	}
	var raw Issue
	if err := a.do(c, http.MethodPost, a.url("/repos/%s/%s/issues", eo, er), req, &raw); err != nil {
		return gcli.Issue{}, err
	}
	return normalizeIssue(raw), nil
}

func (a *Adapter) IssueSetTitle(c *gcli.Context, owner, repo string, number uint64, title string) error {
	return a.patchIssue(c, owner, repo, number, IssueRequest{Title: strPtr(title)})
}

func (a *Adapter) IssueSetMilestone(c *gcli.Context, owner, repo string, number uint64, milestone uint64) error {
	n := int(milestone)
	return a.patchIssue(c, owner, repo, number, IssueRequest{Milestone: &n})
}

// IssueClearMilestone mirrors the teacher library's RemoveMilestone: GitHub
// clears a milestone by PATCHing it to null rather than via a dedicated
// endpoint. omitempty can't express "send null", so this payload is a raw
// map instead of IssueRequest.
func (a *Adapter) IssueClearMilestone(c *gcli.Context, owner, repo string, number uint64) error {
	return a.patchIssue(c, owner, repo, number, map[string]any{"milestone": nil})
}

// AttachmentGetContent always fails on GitHub; see GetIssueAttachments.
func (a *Adapter) AttachmentGetContent(c *gcli.Context, owner, repo string, id uint64, w io.Writer) error {
	return c.Fail(&gcli.DispatchError{Op: "attachment_get_content", Backend: a.ForgeType})
}

// --- Milestones ---

func (a *Adapter) GetMilestones(c *gcli.Context, owner, repo string, max int) ([]gcli.Milestone, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	rawurl := a.url("/repos/%s/%s/milestones", eo, er)
	return fetchList(c, a, rawurl, max, func(body []byte) ([]gcli.Milestone, error) {
		var raw []Milestone
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "github.parse_milestones", Reason: err.Error()}
		}
		out := make([]gcli.Milestone, 0, len(raw))
		for _, m := range raw {
			out = append(out, normalizeMilestone(m))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) GetMilestone(c *gcli.Context, owner, repo string, id uint64) (gcli.Milestone, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	var raw Milestone
	if err := a.get(c, a.url("/repos/%s/%s/milestones/%d", eo, er, id), &raw); err != nil {
		return gcli.Milestone{}, err
	}
	return normalizeMilestone(raw), nil
}

func (a *Adapter) CreateMilestone(c *gcli.Context, owner, repo string, m gcli.MilestoneCreate) (gcli.Milestone, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	payload := map[string]any{"title": m.Title, "description": m.Description}
	if m.DueDate != nil {
		payload["due_on"] = m.DueDate.UTC().Format("2006-01-02T15:04:05Z")
	}
	var raw Milestone
	if err := a.do(c, http.MethodPost, a.url("/repos/%s/%s/milestones", eo, er), payload, &raw); err != nil {
		return gcli.Milestone{}, err
	}
	return normalizeMilestone(raw), nil
}

func (a *Adapter) DeleteMilestone(c *gcli.Context, owner, repo string, id uint64) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodDelete, a.url("/repos/%s/%s/milestones/%d", eo, er, id), nil, nil)
}

func (a *Adapter) MilestoneSetDuedate(c *gcli.Context, owner, repo string, id uint64, due time.Time) error {
	eo, er := encodeOwnerRepo(owner, repo)
	payload := map[string]any{"due_on": due.UTC().Format("2006-01-02T15:04:05Z")}
	return a.do(c, http.MethodPatch, a.url("/repos/%s/%s/milestones/%d", eo, er, id), payload, nil)
}

func (a *Adapter) GetMilestoneIssues(c *gcli.Context, owner, repo string, id uint64) ([]gcli.Issue, error) {
	m, err := a.GetMilestone(c, owner, repo, id)
	if err != nil {
		return nil, err
	}
	return a.SearchIssues(c, owner, repo, gcli.IssueFilter{State: "all", Milestone: strconv.FormatUint(m.ID, 10)}, -1)
}
