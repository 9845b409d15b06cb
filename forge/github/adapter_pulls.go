package github

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/transport"
)

func (a *Adapter) SearchPulls(c *gcli.Context, owner, repo string, filter gcli.PullFilter, max int) ([]gcli.Pull, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	rawurl := a.url("/repos/%s/%s/pulls", eo, er)
	values := url.Values{}
	if filter.State != "" {
		values.Set("state", filter.State)
	} else {
		values.Set("state", "open")
	}
	rawurl = transport.AddOptions(rawurl, values)

	pulls, err := fetchList(c, a, rawurl, max, func(body []byte) ([]gcli.Pull, error) {
		var raw []PullRequest
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "github.parse_pulls", Reason: err.Error()}
		}
		out := make([]gcli.Pull, 0, len(raw))
		for _, p := range raw {
			out = append(out, normalizePull(p))
		}
		return out, nil
	}, nil)
	if err != nil {
		return nil, err
	}
	if filter.Author == "" && len(filter.Labels) == 0 {
		return pulls, nil
	}
	kept := pulls[:0]
	for _, p := range pulls {
		if filter.Author != "" && p.Author != filter.Author {
			continue
		}
		if len(filter.Labels) > 0 && !hasAnyLabel(p.Labels, filter.Labels) {
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

func hasAnyLabel(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (a *Adapter) GetPull(c *gcli.Context, owner, repo string, number int) (gcli.Pull, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	var raw PullRequest
	if err := a.get(c, a.url("/repos/%s/%s/pulls/%d", eo, er, number), &raw); err != nil {
		return gcli.Pull{}, err
	}
	return normalizePull(raw), nil
}

func (a *Adapter) PullGetDiff(c *gcli.Context, owner, repo string, number int, w io.Writer) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return c.Fail(a.tr.Curl(a.stdctx(c), w, a.url("/repos/%s/%s/pulls/%d", eo, er, number), "application/vnd.github.v3.diff"))
}

func (a *Adapter) PullGetPatch(c *gcli.Context, owner, repo string, number int, w io.Writer) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return c.Fail(a.tr.Curl(a.stdctx(c), w, a.url("/repos/%s/%s/pulls/%d", eo, er, number), "application/vnd.github.v3.patch"))
}

// GetPullChecks resolves the pull's head SHA, then lists check runs against
// that commit, mirroring go-github's ListCheckRunsForRef.
func (a *Adapter) GetPullChecks(c *gcli.Context, owner, repo string, number int) (gcli.PullChecks, error) {
	pull, err := a.GetPull(c, owner, repo, number)
	if err != nil {
		return gcli.PullChecks{}, err
	}
	eo, er := encodeOwnerRepo(owner, repo)
	var resp CheckRunsResponse
	if err := a.get(c, a.url("/repos/%s/%s/commits/%s/check-runs", eo, er, pull.HeadSHA), &resp); err != nil {
		return gcli.PullChecks{}, err
	}
	checks := make([]gcli.Check, 0, len(resp.CheckRuns))
	for _, cr := range resp.CheckRuns {
		checks = append(checks, normalizeCheck(cr))
	}
	return gcli.PullChecks{Forge: gcli.ForgeGitHub, GitHub: checks}, nil
}

// PullMerge merges the pull and, when opts.DeleteHead is set, deletes the
// head branch afterward — two sequential requests, matching the teacher's
// merge-then-delete-ref ordering rather than a single atomic call, because
// GitHub's API itself has no combined operation.
func (a *Adapter) PullMerge(c *gcli.Context, owner, repo string, number int, opts gcli.MergeOptions) error {
	eo, er := encodeOwnerRepo(owner, repo)
	payload := map[string]any{}
	if opts.Squash {
		payload["merge_method"] = "squash"
	} else {
		payload["merge_method"] = "merge"
	}
	if opts.CommitHeadline != "" {
		payload["commit_title"] = opts.CommitHeadline
	}
	if opts.CommitMessage != "" {
		payload["commit_message"] = opts.CommitMessage
	}
	if err := a.do(c, http.MethodPut, a.url("/repos/%s/%s/pulls/%d/merge", eo, er, number), payload, nil); err != nil {
		return err
	}
	if !opts.DeleteHead {
		return nil
	}
	pull, err := a.GetPull(c, owner, repo, number)
	if err != nil {
		return err
	}
	ref := pull.HeadLabel
	if idx := indexOfColon(ref); idx >= 0 {
		ref = ref[idx+1:]
	}
	delURL := a.url("/repos/%s/%s/git/refs/heads/%s", eo, er, transport.URLEncode(ref))
	return a.do(c, http.MethodDelete, delURL, nil, nil)
}

func indexOfColon(s string) int {
	for i, r := range s {
		if r == ':' {
			return i
		}
	}
	return -1
}

func (a *Adapter) PullReopen(c *gcli.Context, owner, repo string, number int) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodPatch, a.url("/repos/%s/%s/pulls/%d", eo, er, number), map[string]string{"state": "open"}, nil)
}

func (a *Adapter) PullClose(c *gcli.Context, owner, repo string, number int) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodPatch, a.url("/repos/%s/%s/pulls/%d", eo, er, number), map[string]string{"state": "closed"}, nil)
}

func (a *Adapter) SubmitPull(c *gcli.Context, owner, repo string, create gcli.PullCreate) (gcli.Pull, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	req := PullRequestRequest{
		Title: strPtr(create.Title),
		Body:  strPtr(create.Body),
		Head:  strPtr(create.Head),
		Base:  strPtr(create.Base),
		Draft: boolPtr(create.Draft),
	}
	var raw PullRequest
	if err := a.do(c, http.MethodPost, a.url("/repos/%s/%s/pulls", eo, er), req, &raw); err != nil {
		return gcli.Pull{}, err
	}
	pull := normalizePull(raw)
	for _, r := range create.Reviewers {
		if err := a.PullAddReviewer(c, owner, repo, pull.Number, r); err != nil {
			return pull, err
		}
	}
	return pull, nil
}

func (a *Adapter) GetPullCommits(c *gcli.Context, owner, repo string, number int) ([]gcli.Commit, error) {
	eo, er := encodeOwnerRepo(owner, repo)
	rawurl := a.url("/repos/%s/%s/pulls/%d/commits", eo, er, number)
	return fetchList(c, a, rawurl, -1, func(body []byte) ([]gcli.Commit, error) {
		var raw []Commit
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &gcli.DecodeError{Func: "github.parse_pull_commits", Reason: err.Error()}
		}
		out := make([]gcli.Commit, 0, len(raw))
		for _, rc := range raw {
			out = append(out, normalizeCommit(rc))
		}
		return out, nil
	}, nil)
}

func (a *Adapter) PullAddLabels(c *gcli.Context, owner, repo string, number int, labels []string) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodPost, a.url("/repos/%s/%s/issues/%d/labels", eo, er, number), labels, nil)
}

func (a *Adapter) PullRemoveLabels(c *gcli.Context, owner, repo string, number int, labels []string) error {
	return a.IssueRemoveLabels(c, owner, repo, uint64(number), labels)
}

func (a *Adapter) PullSetMilestone(c *gcli.Context, owner, repo string, number int, milestone uint64) error {
	return a.IssueSetMilestone(c, owner, repo, uint64(number), milestone)
}

func (a *Adapter) PullClearMilestone(c *gcli.Context, owner, repo string, number int) error {
	return a.IssueClearMilestone(c, owner, repo, uint64(number))
}

func (a *Adapter) PullAddReviewer(c *gcli.Context, owner, repo string, number int, reviewer string) error {
	eo, er := encodeOwnerRepo(owner, repo)
	payload := map[string][]string{"reviewers": {reviewer}}
	return a.do(c, http.MethodPost, a.url("/repos/%s/%s/pulls/%d/requested_reviewers", eo, er, number), payload, nil)
}

func (a *Adapter) PullSetTitle(c *gcli.Context, owner, repo string, number int, title string) error {
	eo, er := encodeOwnerRepo(owner, repo)
	return a.do(c, http.MethodPatch, a.url("/repos/%s/%s/pulls/%d", eo, er, number), PullRequestRequest{Title: strPtr(title)}, nil)
}
