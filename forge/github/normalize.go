package github

import (
	"fmt"
	"strings"
	"time"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/jsonutil"
)

func normalizeLabel(l Label) gcli.Label {
	color, _ := jsonutil.GetGitHubStyleColor(l.Color)
	return gcli.Label{ID: uint64(l.ID), Name: l.Name, Description: l.Description, Color: color}
}

func labelNames(ls []Label) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Name)
	}
	return out
}

func userNames(us []User) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.Login)
	}
	return out
}

func milestoneTitle(m *Milestone) string {
	if m == nil {
		return ""
	}
	return m.Title
}

func normalizeIssue(i Issue) gcli.Issue {
	return gcli.Issue{
		ID:            uint64(i.ID),
		Title:         i.Title,
		CreatedAt:     i.CreatedAt.Time,
		Author:        i.User.Login,
		State:         i.State,
		CommentsCount: i.Comments,
		Locked:        i.Locked,
		Body:          i.Body,
		Labels:        labelNames(i.Labels),
		Assignees:     userNames(i.Assignees),
		IsPR:          i.PullRequestLinks != nil,
		Milestone:     milestoneTitle(i.Milestone),
	}
}

// filterOutPullRequests removes items whose IsPR is true, in place,
// preserving order and shrinking the count authoritatively — the Go
// analogue of the C adapter's post-fetch array compaction.
func filterOutPullRequests(items []gcli.Issue) []gcli.Issue {
	out := items[:0]
	for _, it := range items {
		if !it.IsPR {
			out = append(out, it)
		}
	}
	return out
}

func normalizeMilestone(m Milestone) gcli.Milestone {
	out := gcli.Milestone{
		ID:           uint64(m.Number),
		Title:        m.Title,
		State:        m.State,
		CreatedAt:    m.CreatedAt.Time,
		UpdatedAt:    m.UpdatedAt.Time,
		Description:  m.Description,
		OpenIssues:   m.OpenIssues,
		ClosedIssues: m.ClosedIssues,
	}
	if m.DueOn != nil {
		t := m.DueOn.Time
		out.DueDate = &t
		out.Expired = !t.IsZero() && t.Before(time.Now()) && out.State != "closed"
	}
	return out
}

func normalizePull(p PullRequest) gcli.Pull {
	mergeable := false
	if p.Mergeable != nil {
		mergeable = *p.Mergeable
	}
	reviewers := make([]string, 0, len(p.RequestedReviewers))
	for _, r := range p.RequestedReviewers {
		reviewers = append(reviewers, r.Login)
	}
	return gcli.Pull{
		Number:       p.Number,
		ID:           uint64(p.ID),
		Author:       p.User.Login,
		State:        p.State,
		Merged:       p.Merged,
		Title:        p.Title,
		Body:         p.Body,
		CreatedAt:    p.CreatedAt.Time,
		HeadLabel:    p.Head.Label,
		BaseLabel:    p.Base.Label,
		HeadSHA:      p.Head.SHA,
		BaseSHA:      p.Base.SHA,
		Milestone:    milestoneTitle(p.Milestone),
		Comments:     p.Comments,
		Additions:    p.Additions,
		Deletions:    p.Deletions,
		Commits:      p.Commits,
		ChangedFiles: p.ChangedFiles,
		Labels:       labelNames(p.Labels),
		Reviewers:    reviewers,
		Mergeable:    mergeable,
		Draft:        p.Draft,
	}
}

func normalizeRepo(r Repository) gcli.Repo {
	visibility := "public"
	if r.Private {
		visibility = "private"
	}
	return gcli.Repo{
		ID:         uint64(r.ID),
		FullName:   r.FullName,
		Name:       r.Name,
		Owner:      r.Owner.Login,
		Date:       r.CreatedAt.Time,
		Visibility: visibility,
		IsFork:     r.Fork,
	}
}

func normalizeFork(r Repository) gcli.Fork {
	return gcli.Fork{
		FullName:   r.FullName,
		Owner:      r.Owner.Login,
		Date:       r.CreatedAt.Time,
		ForksCount: r.ForksCount,
	}
}

func normalizeComment(c Comment) gcli.Comment {
	return gcli.Comment{ID: uint64(c.ID), Author: c.User.Login, Date: c.CreatedAt.Time, Body: c.Body}
}

func normalizeRelease(r Release) gcli.Release {
	assets := make([]gcli.ReleaseAsset, 0, len(r.Assets))
	for _, a := range r.Assets {
		assets = append(assets, gcli.ReleaseAsset{Name: a.Name, URL: a.BrowserDownloadURL})
	}
	return gcli.Release{
		ID:         uint64(r.ID),
		Name:       r.Name,
		Body:       r.Body,
		Author:     r.Author.Login,
		Date:       r.CreatedAt.Time,
		UploadURL:  r.UploadURL,
		TarballURL: r.TarballURL,
		Draft:      r.Draft,
		Prerelease: r.Prerelease,
		Assets:     assets,
	}
}

func normalizeCommit(c Commit) gcli.Commit {
	return gcli.Commit{
		SHA:     c.SHA,
		LongSHA: c.SHA,
		Message: c.Commit.Message,
		Date:    c.Commit.Author.Date.Time,
		Author:  c.Commit.Author.Name,
		Email:   c.Commit.Author.Email,
	}
}

func normalizeCheck(cr CheckRun) gcli.Check {
	return gcli.Check{
		ID:          uint64(cr.ID),
		Name:        cr.Name,
		Status:      cr.Status,
		Conclusion:  cr.Conclusion,
		StartedAt:   cr.StartedAt.Time,
		CompletedAt: cr.CompletedAt.Time,
	}
}

func normalizeSSHKey(k SSHKey) gcli.SSHKey {
	return gcli.SSHKey{ID: uint64(k.ID), Title: k.Title, Key: k.Key, CreatedAt: k.CreatedAt.Time}
}

func normalizeNotification(n Notification) gcli.Notification {
	return gcli.Notification{
		ID:         parseNotificationID(n.ID),
		Title:      n.Subject.Title,
		Type:       n.Subject.Type,
		Date:       n.UpdatedAt.Time,
		Reason:     n.Reason,
		Repository: n.Repository.FullName,
	}
}

func parseNotificationID(s string) uint64 {
	var id uint64
	fmt.Sscanf(s, "%d", &id)
	return id
}

// ColorHex renders a packed 0xRRGGBB00 color back to GitHub's unprefixed
// six-digit hex form.
func ColorHex(color uint32) string {
	return strings.ToLower(fmt.Sprintf("%06x", color>>8))
}
