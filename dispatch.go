package gcli

import (
	"io"
	"time"
)

// IssueQuirk declares an absent issue field on a backend.
type IssueQuirk uint32

const (
	IssueQuirkLocked IssueQuirk = 1 << iota
	IssueQuirkComments
	IssueQuirkProdComp
	IssueQuirkURL
	IssueQuirkAttachments
)

// PullQuirk declares an absent pull-summary field on a backend.
type PullQuirk uint32

const (
	PullQuirkAddDel PullQuirk = 1 << iota
	PullQuirkCommits
	PullQuirkChanges
	PullQuirkMerged
	PullQuirkDraft
	PullQuirkCoverage
	PullQuirkAutomerge
)

// MilestoneQuirk declares an absent milestone field/operation on a backend.
type MilestoneQuirk uint32

const (
	MilestoneQuirkExpired MilestoneQuirk = 1 << iota
	MilestoneQuirkDueDate
	MilestoneQuirkPulls
	MilestoneQuirkNIssues
)

// Quirks reports the declared gaps of a backend, consulted by callers
// before formatting output. Adapters leave absent fields zero-initialized
// rather than omitting them from the struct.
type Quirks struct {
	Issue     IssueQuirk
	Pull      PullQuirk
	Milestone MilestoneQuirk
}

// CommentTarget disambiguates which kind of thread SubmitComment posts to.
type CommentTarget int

const (
	CommentTargetIssue CommentTarget = iota
	CommentTargetPull
)

// IssueFilter narrows a SearchIssues call.
type IssueFilter struct {
	State     string // "open", "closed", "all"
	Labels    []string
	Author    string
	Assignee  string
	Milestone string
	All       bool // bugzilla: include closed bugs
	Product   string
	Component string
}

// IssueCreate carries the fields used to submit a new issue.
type IssueCreate struct {
	Title     string
	Body      string
	Labels    []string
	Assignees []string
}

// PullFilter narrows a SearchPulls call.
type PullFilter struct {
	State  string
	Labels []string
	Author string
}

// PullCreate carries the fields used to submit a new pull/merge request.
type PullCreate struct {
	Title     string
	Body      string
	Head      string
	Base      string
	Draft     bool
	Reviewers []string
}

// MergeOptions controls PullMerge behavior.
type MergeOptions struct {
	Squash            bool
	DeleteHead        bool
	CommitHeadline    string
	CommitMessage     string
}

// MilestoneCreate carries the fields used to create a milestone.
type MilestoneCreate struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// ReleaseCreate carries the fields used to create a release.
type ReleaseCreate struct {
	Tag        string
	Name       string
	Body       string
	Commitish  string
	Draft      bool
	Prerelease bool
	Assets     []ReleaseAssetUpload
}

// ReleaseAssetUpload names a local file to attach to a new release.
type ReleaseAssetUpload struct {
	Name string
	Path string
}

// RepoCreate carries the fields used to create a repository.
type RepoCreate struct {
	Name        string
	Description string
	Private     bool
}

// Forge is the per-backend vtable of operation implementations plus its
// declared quirks. Every method takes the owning Context first. Adapters
// embed UnimplementedForge and override only the operations they support;
// an operation whose embedded default runs returns a *DispatchError rather
// than panicking, and never mutates caller-visible state.
type Forge interface {
	Type() ForgeType
	Quirks() Quirks

	// Internal
	MakeAuthHeader(token string) string
	GetAPIErrorString(body []byte) string
	UserObjectKey() string

	// Comments
	GetIssueComments(c *Context, owner, repo string, issue uint64) ([]Comment, error)
	GetPullComments(c *Context, owner, repo string, pull int) ([]Comment, error)
	SubmitComment(c *Context, owner, repo string, target CommentTarget, id uint64, body string) (Comment, error)

	// Forks
	GetForks(c *Context, owner, repo string, max int) ([]Fork, error)
	ForkCreate(c *Context, owner, repo, into string) (Repo, error)

	// Issues
	SearchIssues(c *Context, owner, repo string, filter IssueFilter, max int) ([]Issue, error)
	GetIssueSummary(c *Context, owner, repo string, number uint64) (Issue, error)
	GetIssueAttachments(c *Context, owner, repo string, number uint64) ([]Attachment, error)
	IssueClose(c *Context, owner, repo string, number uint64) error
	IssueReopen(c *Context, owner, repo string, number uint64) error
	IssueAssign(c *Context, owner, repo string, number uint64, assignee string) error
	IssueAddLabels(c *Context, owner, repo string, number uint64, labels []string) error
	IssueRemoveLabels(c *Context, owner, repo string, number uint64, labels []string) error
	SubmitIssue(c *Context, owner, repo string, create IssueCreate) (Issue, error)
	IssueSetTitle(c *Context, owner, repo string, number uint64, title string) error
	IssueSetMilestone(c *Context, owner, repo string, number uint64, milestone uint64) error
	IssueClearMilestone(c *Context, owner, repo string, number uint64) error

	// Attachments
	AttachmentGetContent(c *Context, owner, repo string, id uint64, w io.Writer) error

	// Milestones
	GetMilestones(c *Context, owner, repo string, max int) ([]Milestone, error)
	GetMilestone(c *Context, owner, repo string, id uint64) (Milestone, error)
	CreateMilestone(c *Context, owner, repo string, m MilestoneCreate) (Milestone, error)
	DeleteMilestone(c *Context, owner, repo string, id uint64) error
	MilestoneSetDuedate(c *Context, owner, repo string, id uint64, due time.Time) error
	GetMilestoneIssues(c *Context, owner, repo string, id uint64) ([]Issue, error)

	// Pulls
	SearchPulls(c *Context, owner, repo string, filter PullFilter, max int) ([]Pull, error)
	GetPull(c *Context, owner, repo string, number int) (Pull, error)
	PullGetDiff(c *Context, owner, repo string, number int, w io.Writer) error
	PullGetPatch(c *Context, owner, repo string, number int, w io.Writer) error
	GetPullChecks(c *Context, owner, repo string, number int) (PullChecks, error)
	PullMerge(c *Context, owner, repo string, number int, opts MergeOptions) error
	PullReopen(c *Context, owner, repo string, number int) error
	PullClose(c *Context, owner, repo string, number int) error
	SubmitPull(c *Context, owner, repo string, create PullCreate) (Pull, error)
	GetPullCommits(c *Context, owner, repo string, number int) ([]Commit, error)
	PullAddLabels(c *Context, owner, repo string, number int, labels []string) error
	PullRemoveLabels(c *Context, owner, repo string, number int, labels []string) error
	PullSetMilestone(c *Context, owner, repo string, number int, milestone uint64) error
	PullClearMilestone(c *Context, owner, repo string, number int) error
	PullAddReviewer(c *Context, owner, repo string, number int, reviewer string) error
	PullSetTitle(c *Context, owner, repo string, number int, title string) error

	// Releases
	GetReleases(c *Context, owner, repo string, max int) ([]Release, error)
	CreateRelease(c *Context, owner, repo string, r ReleaseCreate) (Release, error)
	DeleteRelease(c *Context, owner, repo string, id uint64) error

	// Labels
	GetLabels(c *Context, owner, repo string, max int) ([]Label, error)
	CreateLabel(c *Context, owner, repo string, l Label) (Label, error)
	DeleteLabel(c *Context, owner, repo string, name string) error

	// Repos
	GetRepos(c *Context, owner string, max int) ([]Repo, error)
	GetOwnRepos(c *Context, max int) ([]Repo, error)
	RepoCreate(c *Context, r RepoCreate) (Repo, error)
	RepoDelete(c *Context, owner, repo string) error
	RepoSetVisibility(c *Context, owner, repo string, visibility string) error

	// SSH keys
	GetSSHKeys(c *Context) ([]SSHKey, error)
	AddSSHKey(c *Context, title, key string) (SSHKey, error)
	DeleteSSHKey(c *Context, id uint64) error

	// Notifications
	GetNotifications(c *Context, max int) ([]Notification, error)
	NotificationMarkAsRead(c *Context, id uint64) error
}

// opError builds the uniform dispatch-absence error for op.
func opError(op string, t ForgeType) error {
	return &DispatchError{Op: op, Backend: t}
}

// UnimplementedForge supplies the uniform "operation not available" default
// for every method of Forge. Backend adapters embed this and override only
// the operations their forge supports.
type UnimplementedForge struct {
	ForgeType ForgeType
}

func (u UnimplementedForge) Type() ForgeType { return u.ForgeType }
func (u UnimplementedForge) Quirks() Quirks  { return Quirks{} }

func (u UnimplementedForge) MakeAuthHeader(token string) string { return "" }
func (u UnimplementedForge) GetAPIErrorString(body []byte) string { return string(body) }
func (u UnimplementedForge) UserObjectKey() string { return "login" }

func (u UnimplementedForge) GetIssueComments(c *Context, owner, repo string, issue uint64) ([]Comment, error) {
	return nil, opError("get_issue_comments", u.ForgeType)
}
func (u UnimplementedForge) GetPullComments(c *Context, owner, repo string, pull int) ([]Comment, error) {
	return nil, opError("get_pull_comments", u.ForgeType)
}
func (u UnimplementedForge) SubmitComment(c *Context, owner, repo string, target CommentTarget, id uint64, body string) (Comment, error) {
	return Comment{}, opError("submit_comment", u.ForgeType)
}
func (u UnimplementedForge) GetForks(c *Context, owner, repo string, max int) ([]Fork, error) {
	return nil, opError("get_forks", u.ForgeType)
}
func (u UnimplementedForge) ForkCreate(c *Context, owner, repo, into string) (Repo, error) {
	return Repo{}, opError("fork_create", u.ForgeType)
}
func (u UnimplementedForge) SearchIssues(c *Context, owner, repo string, filter IssueFilter, max int) ([]Issue, error) {
	return nil, opError("search_issues", u.ForgeType)
}
func (u UnimplementedForge) GetIssueSummary(c *Context, owner, repo string, number uint64) (Issue, error) {
	return Issue{}, opError("get_issue_summary", u.ForgeType)
}
func (u UnimplementedForge) GetIssueAttachments(c *Context, owner, repo string, number uint64) ([]Attachment, error) {
	return nil, opError("get_issue_attachments", u.ForgeType)
}
func (u UnimplementedForge) IssueClose(c *Context, owner, repo string, number uint64) error {
	return opError("issue_close", u.ForgeType)
}
func (u UnimplementedForge) IssueReopen(c *Context, owner, repo string, number uint64) error {
	return opError("issue_reopen", u.ForgeType)
}
func (u UnimplementedForge) IssueAssign(c *Context, owner, repo string, number uint64, assignee string) error {
	return opError("issue_assign", u.ForgeType)
}
func (u UnimplementedForge) IssueAddLabels(c *Context, owner, repo string, number uint64, labels []string) error {
	return opError("issue_add_labels", u.ForgeType)
}
func (u UnimplementedForge) IssueRemoveLabels(c *Context, owner, repo string, number uint64, labels []string) error {
	return opError("issue_remove_labels", u.ForgeType)
}
func (u UnimplementedForge) SubmitIssue(c *Context, owner, repo string, create IssueCreate) (Issue, error) {
	return Issue{}, opError("submit_issue", u.ForgeType)
}
func (u UnimplementedForge) IssueSetTitle(c *Context, owner, repo string, number uint64, title string) error {
	return opError("issue_set_title", u.ForgeType)
}
func (u UnimplementedForge) IssueSetMilestone(c *Context, owner, repo string, number uint64, milestone uint64) error {
	return opError("issue_set_milestone", u.ForgeType)
}
func (u UnimplementedForge) IssueClearMilestone(c *Context, owner, repo string, number uint64) error {
	return opError("issue_clear_milestone", u.ForgeType)
}
func (u UnimplementedForge) AttachmentGetContent(c *Context, owner, repo string, id uint64, w io.Writer) error {
	return opError("attachment_get_content", u.ForgeType)
}
func (u UnimplementedForge) GetMilestones(c *Context, owner, repo string, max int) ([]Milestone, error) {
	return nil, opError("get_milestones", u.ForgeType)
}
func (u UnimplementedForge) GetMilestone(c *Context, owner, repo string, id uint64) (Milestone, error) {
	return Milestone{}, opError("get_milestone", u.ForgeType)
}
func (u UnimplementedForge) CreateMilestone(c *Context, owner, repo string, m MilestoneCreate) (Milestone, error) {
	return Milestone{}, opError("create_milestone", u.ForgeType)
}
func (u UnimplementedForge) DeleteMilestone(c *Context, owner, repo string, id uint64) error {
	return opError("delete_milestone", u.ForgeType)
}
func (u UnimplementedForge) MilestoneSetDuedate(c *Context, owner, repo string, id uint64, due time.Time) error {
	return opError("milestone_set_duedate", u.ForgeType)
}
func (u UnimplementedForge) GetMilestoneIssues(c *Context, owner, repo string, id uint64) ([]Issue, error) {
	return nil, opError("get_milestone_issues", u.ForgeType)
}
func (u UnimplementedForge) SearchPulls(c *Context, owner, repo string, filter PullFilter, max int) ([]Pull, error) {
	return nil, opError("search_pulls", u.ForgeType)
}
func (u UnimplementedForge) GetPull(c *Context, owner, repo string, number int) (Pull, error) {
	return Pull{}, opError("get_pull", u.ForgeType)
}
func (u UnimplementedForge) PullGetDiff(c *Context, owner, repo string, number int, w io.Writer) error {
	return opError("pull_get_diff", u.ForgeType)
}
func (u UnimplementedForge) PullGetPatch(c *Context, owner, repo string, number int, w io.Writer) error {
	return opError("pull_get_patch", u.ForgeType)
}
func (u UnimplementedForge) GetPullChecks(c *Context, owner, repo string, number int) (PullChecks, error) {
	return PullChecks{}, opError("get_pull_checks", u.ForgeType)
}
func (u UnimplementedForge) PullMerge(c *Context, owner, repo string, number int, opts MergeOptions) error {
	return opError("pull_merge", u.ForgeType)
}
func (u UnimplementedForge) PullReopen(c *Context, owner, repo string, number int) error {
	return opError("pull_reopen", u.ForgeType)
}
func (u UnimplementedForge) PullClose(c *Context, owner, repo string, number int) error {
	return opError("pull_close", u.ForgeType)
}
func (u UnimplementedForge) SubmitPull(c *Context, owner, repo string, create PullCreate) (Pull, error) {
	return Pull{}, opError("submit_pull", u.ForgeType)
}
func (u UnimplementedForge) GetPullCommits(c *Context, owner, repo string, number int) ([]Commit, error) {
	return nil, opError("get_pull_commits", u.ForgeType)
}
func (u UnimplementedForge) PullAddLabels(c *Context, owner, repo string, number int, labels []string) error {
	return opError("pull_add_labels", u.ForgeType)
}
func (u UnimplementedForge) PullRemoveLabels(c *Context, owner, repo string, number int, labels []string) error {
	return opError("pull_remove_labels", u.ForgeType)
}
func (u UnimplementedForge) PullSetMilestone(c *Context, owner, repo string, number int, milestone uint64) error {
	return opError("pull_set_milestone", u.ForgeType)
}
func (u UnimplementedForge) PullClearMilestone(c *Context, owner, repo string, number int) error {
	return opError("pull_clear_milestone", u.ForgeType)
}
func (u UnimplementedForge) PullAddReviewer(c *Context, owner, repo string, number int, reviewer string) error {
	return opError("pull_add_reviewer", u.ForgeType)
}
func (u UnimplementedForge) PullSetTitle(c *Context, owner, repo string, number int, title string) error {
	return opError("pull_set_title", u.ForgeType)
}
func (u UnimplementedForge) GetReleases(c *Context, owner, repo string, max int) ([]Release, error) {
	return nil, opError("get_releases", u.ForgeType)
}
func (u UnimplementedForge) CreateRelease(c *Context, owner, repo string, r ReleaseCreate) (Release, error) {
	return Release{}, opError("create_release", u.ForgeType)
}
func (u UnimplementedForge) DeleteRelease(c *Context, owner, repo string, id uint64) error {
	return opError("delete_release", u.ForgeType)
}
func (u UnimplementedForge) GetLabels(c *Context, owner, repo string, max int) ([]Label, error) {
	return nil, opError("get_labels", u.ForgeType)
}
func (u UnimplementedForge) CreateLabel(c *Context, owner, repo string, l Label) (Label, error) {
	return Label{}, opError("create_label", u.ForgeType)
}
func (u UnimplementedForge) DeleteLabel(c *Context, owner, repo string, name string) error {
	return opError("delete_label", u.ForgeType)
}
func (u UnimplementedForge) GetRepos(c *Context, owner string, max int) ([]Repo, error) {
	return nil, opError("get_repos", u.ForgeType)
}
func (u UnimplementedForge) GetOwnRepos(c *Context, max int) ([]Repo, error) {
	return nil, opError("get_own_repos", u.ForgeType)
}
func (u UnimplementedForge) RepoCreate(c *Context, r RepoCreate) (Repo, error) {
	return Repo{}, opError("repo_create", u.ForgeType)
}
func (u UnimplementedForge) RepoDelete(c *Context, owner, repo string) error {
	return opError("repo_delete", u.ForgeType)
}
func (u UnimplementedForge) RepoSetVisibility(c *Context, owner, repo string, visibility string) error {
	return opError("repo_set_visibility", u.ForgeType)
}
func (u UnimplementedForge) GetSSHKeys(c *Context) ([]SSHKey, error) {
	return nil, opError("get_sshkeys", u.ForgeType)
}
func (u UnimplementedForge) AddSSHKey(c *Context, title, key string) (SSHKey, error) {
	return SSHKey{}, opError("add_sshkey", u.ForgeType)
}
func (u UnimplementedForge) DeleteSSHKey(c *Context, id uint64) error {
	return opError("delete_sshkey", u.ForgeType)
}
func (u UnimplementedForge) GetNotifications(c *Context, max int) ([]Notification, error) {
	return nil, opError("get_notifications", u.ForgeType)
}
func (u UnimplementedForge) NotificationMarkAsRead(c *Context, id uint64) error {
	return opError("notification_mark_as_read", u.ForgeType)
}
