package gcli

import "time"

// ForgeType identifies the selected backend.
type ForgeType string

const (
	ForgeGitHub   ForgeType = "github"
	ForgeGitLab   ForgeType = "gitlab"
	ForgeGitea    ForgeType = "gitea"
	ForgeBugzilla ForgeType = "bugzilla"
)

// Issue is the canonical representation of an issue across all backends.
//
// Product and Component are only ever populated by Bugzilla. IsPR
// disambiguates GitHub's conflation of issues and pull requests; for every
// other backend IsPR is always false.
type Issue struct {
	ID            uint64
	Title         string
	CreatedAt     time.Time
	Author        string
	State         string
	CommentsCount int
	Locked        bool
	Body          string
	Labels        []string
	Assignees     []string
	IsPR          bool
	Milestone     string
	Product       string
	Component     string
}

// Pull is the canonical representation of a pull request or merge request.
//
// Invariant: Merged implies State is "closed" or "merged".
type Pull struct {
	Number          int
	ID              uint64
	Author          string
	State           string
	Title           string
	Body            string
	CreatedAt       time.Time
	HeadLabel       string
	BaseLabel       string
	HeadSHA         string
	BaseSHA         string
	Milestone       string
	Comments        int
	Additions       int
	Deletions       int
	Commits         int
	ChangedFiles    int
	HeadPipelineID  int64 // GitLab only
	Coverage        string
	Labels          []string
	Reviewers       []string
	Merged          bool
	Mergeable       bool
	Draft           bool
}

// Commit is a single commit as returned by a pull/repo commit listing.
type Commit struct {
	SHA     string
	LongSHA string
	Message string
	Date    time.Time
	Author  string
	Email   string
}

// Repo is the canonical representation of a repository.
type Repo struct {
	ID       uint64
	FullName string
	Name     string
	Owner    string
	Date     time.Time
	Visibility string
	IsFork   bool
}

// Fork is a forked repository.
type Fork struct {
	FullName   string
	Owner      string
	Date       time.Time
	ForksCount int
}

// Label is an issue/pull label. Color is packed as 0xRRGGBB00 (low byte
// reserved).
type Label struct {
	ID          uint64
	Name        string
	Description string
	Color       uint32
}

// Milestone groups issues/pulls with an optional due date.
type Milestone struct {
	ID           uint64
	Title        string
	State        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Description  string
	DueDate      *time.Time
	Expired      bool
	OpenIssues   int
	ClosedIssues int
}

// ReleaseAsset is a single uploaded asset attached to a release.
type ReleaseAsset struct {
	Name string
	URL  string
}

// Release is a tagged release of a repository.
type Release struct {
	ID         uint64
	Name       string
	Body       string
	Author     string
	Date       time.Time
	UploadURL  string
	TarballURL string
	Draft      bool
	Prerelease bool
	Assets     []ReleaseAsset
}

// Comment is a single comment on an issue or pull.
type Comment struct {
	ID     uint64
	Author string
	Date   time.Time
	Body   string
}

// Attachment is a file attached to an issue (Bugzilla) or release.
type Attachment struct {
	ID          uint64
	Author      string
	CreatedAt   time.Time
	FileName    string
	Summary     string
	ContentType string
	IsObsolete  bool
}

// Notification is a single notification entry.
type Notification struct {
	ID         uint64
	Title      string
	Type       string
	Date       time.Time
	Reason     string
	Repository string
}

// Check is a single CI result, as reported by GitHub Checks.
type Check struct {
	ID          uint64
	Name        string
	Status      string
	Conclusion  string
	StartedAt   time.Time
	CompletedAt time.Time
}

// Pipeline is a GitLab CI pipeline, the GitLab analogue of a Check.
type Pipeline struct {
	ID        uint64
	Status    string
	Ref       string
	SHA       string
	CreatedAt time.Time
	UpdatedAt time.Time
	WebURL    string
}

// PullChecks is the polymorphic pull-checks list. Readers must branch on
// Forge before interpreting the payload — a violation is a programmer bug,
// not a recoverable error.
type PullChecks struct {
	Forge     ForgeType
	GitHub    []Check
	GitLab    []Pipeline
}

// SSHKey is a public key registered with the user's forge account.
type SSHKey struct {
	ID        uint64
	Title     string
	Key       string
	CreatedAt time.Time
}

// FetchBuffer is an owned response body captured by the HTTP engine.
type FetchBuffer struct {
	Bytes []byte
}
