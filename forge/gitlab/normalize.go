package gitlab

import (
	"strconv"
	"strings"

	"github.com/herrhotzenplotz/gcli"
	"github.com/herrhotzenplotz/gcli/internal/jsonutil"
)

func usernames(us []User) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.Username)
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
		ID:            uint64(i.IID),
		Title:         i.Title,
		CreatedAt:     i.CreatedAt,
		Author:        i.Author.Username,
		State:         i.State,
		CommentsCount: i.UserNotesCount,
		Body:          i.Description,
		Labels:        i.Labels,
		Assignees:     usernames(i.Assignees),
		Milestone:     milestoneTitle(i.Milestone),
	}
}

func normalizeLabel(l Label) gcli.Label {
	color, _ := jsonutil.GetGitLabStyleColor(l.Color)
	return gcli.Label{ID: uint64(l.ID), Name: l.Name, Description: l.Description, Color: color}
}

func normalizeMilestone(m Milestone) gcli.Milestone {
	out := gcli.Milestone{
		ID:          uint64(m.IID),
		Title:       m.Title,
		State:       m.State,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Description: m.Description,
	}
	if m.DueDate != nil {
		t := m.DueDate.Time
		out.DueDate = &t
	}
	return out
}

// normalizeMergeRequest applies the original adapter's gitlab_mrs_fixup:
// GitLab never reports a dedicated "merged" boolean, so it is derived from
// state == "merged" here rather than trusted from the wire.
func normalizeMergeRequest(m MergeRequest) gcli.Pull {
	state := m.State
	merged := m.merged()
	reviewers := usernames(m.Reviewers)
	changes, _ := strconv.Atoi(m.ChangesCount)
	return gcli.Pull{
		Number:       m.IID,
		ID:           uint64(m.ID),
		Author:       m.Author.Username,
		State:        state,
		Title:        m.Title,
		Body:         m.Description,
		CreatedAt:    m.CreatedAt,
		HeadLabel:    m.SourceBranch,
		BaseLabel:    m.TargetBranch,
		HeadSHA:      m.SHA,
		BaseSHA:      m.DiffRefs.BaseSHA,
		Milestone:    milestoneTitle(m.Milestone),
		Comments:     m.UserNotesCount,
		ChangedFiles: changes,
		Labels:       m.Labels,
		Reviewers:    reviewers,
		Merged:       merged,
		Mergeable:    m.MergeStatus == "can_be_merged",
		Draft:        m.Draft,
	}
}

func normalizeProject(p Project) gcli.Repo {
	return gcli.Repo{
		ID:         uint64(p.ID),
		FullName:   p.PathWithNamespace,
		Name:       p.Name,
		Owner:      p.Namespace.Path,
		Date:       p.CreatedAt,
		Visibility: p.Visibility,
		IsFork:     p.ForkedFromProject != nil,
	}
}

func normalizeFork(p Project) gcli.Fork {
	return gcli.Fork{
		FullName:   p.PathWithNamespace,
		Owner:      p.Namespace.Path,
		Date:       p.CreatedAt,
		ForksCount: p.ForksCount,
	}
}

func normalizeNote(n Note) gcli.Comment {
	return gcli.Comment{ID: uint64(n.ID), Author: n.Author.Username, Date: n.CreatedAt, Body: n.Body}
}

func normalizeCommit(c Commit) gcli.Commit {
	return gcli.Commit{
		SHA:     c.ShortID,
		LongSHA: c.ID,
		Message: c.Message,
		Date:    c.AuthoredDate,
		Author:  c.AuthorName,
		Email:   c.AuthorEmail,
	}
}

func normalizeRelease(r Release) gcli.Release {
	assets := make([]gcli.ReleaseAsset, 0, len(r.Assets.Links))
	for _, l := range r.Assets.Links {
		assets = append(assets, gcli.ReleaseAsset{Name: l.Name, URL: l.URL})
	}
	return gcli.Release{
		Name:      r.Name,
		Body:      r.Description,
		Author:    r.Author.Username,
		Date:      r.CreatedAt,
		Assets:    assets,
	}
}

func normalizePipeline(p Pipeline) gcli.Pipeline {
	return gcli.Pipeline{
		ID:        uint64(p.ID),
		Status:    p.Status,
		Ref:       p.Ref,
		SHA:       p.SHA,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		WebURL:    p.WebURL,
	}
}

func normalizeSSHKey(k SSHKey) gcli.SSHKey {
	return gcli.SSHKey{ID: uint64(k.ID), Title: k.Title, Key: k.Key, CreatedAt: k.CreatedAt}
}

func normalizeTodo(t Todo) gcli.Notification {
	return gcli.Notification{
		ID:         uint64(t.ID),
		Title:      t.Target.Title,
		Type:       t.TargetType,
		Date:       t.UpdatedAt,
		Reason:     t.ActionName,
		Repository: t.Project.PathWithNamespace,
	}
}

// ColorHex renders a packed 0xRRGGBB00 color back to GitLab's hash-prefixed
// six-digit hex form.
func ColorHex(color uint32) string {
	return "#" + strings.ToLower(formatHex6(color>>8))
}

func formatHex6(v uint32) string {
	s := strconv.FormatUint(uint64(v), 16)
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}
