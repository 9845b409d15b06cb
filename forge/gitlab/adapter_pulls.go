package gitlab

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
)

func (a *Adapter) SearchPulls(c *gcli.Context, owner, repo string, filter gcli.PullFilter, max int) ([]gcli.Pull, error) {
	u := a.url("/projects/%s/merge_requests", project(owner, repo))
	values := url.Values{}
	if filter.State != "" && filter.State != "all" {
		values.Set("state", filter.State)
	}
	if filter.Author != "" {
		values.Set("author_username", filter.Author)
	}
	if len(filter.Labels) > 0 {
		values.Set("labels", joinComma(filter.Labels))
	}
	u = transport.AddOptions(u, values)
	return fetchList(c, a, u, max, func(body []byte) ([]gcli.Pull, error) {
		var raw []MergeRequest
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_mrs", Reason: err.Error()}
		}
		out := make([]gcli.Pull, 0, len(raw))
		for _, m := range raw {
			out = append(out, normalizeMergeRequest(m))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) getMR(c *gcli.Context, owner, repo string, number int) (MergeRequest, error) {
	var raw MergeRequest
	err := a.get(c, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), &raw)
	return raw, err
}

func (a *Adapter) GetPull(c *gcli.Context, owner, repo string, number int) (gcli.Pull, error) {
	raw, err := a.getMR(c, owner, repo, number)
	if err != nil {
		return gcli.Pull{}, err
	}
	return normalizeMergeRequest(raw), nil
}

func (a *Adapter) PullGetDiff(c *gcli.Context, owner, repo string, number int, w io.Writer) error {
	return c.Fail(a.tr.Curl(stdctx(c), w, a.url("/projects/%s/merge_requests/%d.diff", project(owner, repo), number), ""))
}

func (a *Adapter) PullGetPatch(c *gcli.Context, owner, repo string, number int, w io.Writer) error {
	return c.Fail(a.tr.Curl(stdctx(c), w, a.url("/projects/%s/merge_requests/%d.patch", project(owner, repo), number), ""))
}

// GetPullChecks returns the pipelines attached to the MR's head pipeline
// list — GitLab's analogue of a check suite. Unlike GitHub, this arm of the
// tagged union is GitLab, carrying raw pipeline statuses unconverted.
func (a *Adapter) GetPullChecks(c *gcli.Context, owner, repo string, number int) (gcli.PullChecks, error) {
	raw, err := a.getMR(c, owner, repo, number)
	if err != nil {
		return gcli.PullChecks{}, err
	}
	pipelines, err := fetchList(c, a, a.url("/projects/%s/merge_requests/%d/pipelines", project(owner, repo), number), -1, func(body []byte) ([]gcli.Pipeline, error) {
		var rawList []Pipeline
		if err := json.Unmarshal(body, &rawList); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_pipelines", Reason: err.Error()}
		}
		out := make([]gcli.Pipeline, 0, len(rawList))
		for _, p := range rawList {
			out = append(out, normalizePipeline(p))
		}
		return out, nil
	}, nil)
	if err != nil {
		return gcli.PullChecks{}, err
	}
	_ = raw.HeadPipeline
	return gcli.PullChecks{Forge: gcli.ForgeGitLab, GitLab: pipelines}, nil
}

// PullMerge resolves the MR's numeric target_project_id before submitting —
// GitLab's merge endpoint is scoped by project ID, and the original adapter
// performs this same lookup-then-submit sequence rather than assuming the
// source project is also the target.
func (a *Adapter) PullMerge(c *gcli.Context, owner, repo string, number int, opts gcli.MergeOptions) error {
	raw, err := a.getMR(c, owner, repo, number)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"squash":                       opts.Squash,
		"should_remove_source_branch": opts.DeleteHead,
	}
	if opts.CommitMessage != "" {
		payload["merge_commit_message"] = opts.CommitMessage
	}
	u := a.url("/projects/%d/merge_requests/%d/merge", raw.TargetProjectID, number)
	return a.do(c, http.MethodPut, u, payload, nil)
}

func (a *Adapter) PullReopen(c *gcli.Context, owner, repo string, number int) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), map[string]any{"state_event": "reopen"}, nil)
}

func (a *Adapter) PullClose(c *gcli.Context, owner, repo string, number int) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), map[string]any{"state_event": "close"}, nil)
}

func (a *Adapter) SubmitPull(c *gcli.Context, owner, repo string, create gcli.PullCreate) (gcli.Pull, error) {
	payload := map[string]any{
		"title":         create.Title,
		"description":   create.Body,
		"source_branch": create.Head,
		"target_branch": create.Base,
	}
	var raw MergeRequest
	if err := a.do(c, http.MethodPost, a.url("/projects/%s/merge_requests", project(owner, repo)), payload, &raw); err != nil {
		return gcli.Pull{}, err
	}
	pull := normalizeMergeRequest(raw)
	for _, r := range create.Reviewers {
		if err := a.PullAddReviewer(c, owner, repo, pull.Number, r); err != nil {
			return pull, err
		}
	}
	return pull, nil
}

func (a *Adapter) GetPullCommits(c *gcli.Context, owner, repo string, number int) ([]gcli.Commit, error) {
	return fetchList(c, a, a.url("/projects/%s/merge_requests/%d/commits", project(owner, repo), number), -1, func(body []byte) ([]gcli.Commit, error) {
		var raw []Commit
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "gitlab.parse_mr_commits", Reason: err.Error()}
		}
		out := make([]gcli.Commit, 0, len(raw))
		for _, rc := range raw {
			out = append(out, normalizeCommit(rc))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) PullAddLabels(c *gcli.Context, owner, repo string, number int, labels []string) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), map[string]any{"add_labels": joinComma(labels)}, nil)
}

func (a *Adapter) PullRemoveLabels(c *gcli.Context, owner, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return c.Fail(&gcli.InputError{Reason: "pull_remove_labels requires at least one label"})
	}
	return a.do(c, http.MethodPut, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), map[string]any{"remove_labels": joinComma(labels)}, nil)
}

func (a *Adapter) PullSetMilestone(c *gcli.Context, owner, repo string, number int, milestone uint64) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), map[string]any{"milestone_id": milestone}, nil)
}

func (a *Adapter) PullClearMilestone(c *gcli.Context, owner, repo string, number int) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), map[string]any{"milestone_id": nil}, nil)
}

func (a *Adapter) PullAddReviewer(c *gcli.Context, owner, repo string, number int, reviewer string) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), map[string]any{"reviewer_ids": []string{reviewer}}, nil)
}

func (a *Adapter) PullSetTitle(c *gcli.Context, owner, repo string, number int, title string) error {
	return a.do(c, http.MethodPut, a.url("/projects/%s/merge_requests/%d", project(owner, repo), number), map[string]any{"title": title}, nil)
}
