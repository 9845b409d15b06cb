package github

// User is the minimal shape of a GitHub user/actor object, as embedded in
// issues, pulls, commits, and comments.
type User struct {
	Login string `json:"login"`
}

// Label is the wire shape of a GitHub label.
type Label struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Milestone is the wire shape of a GitHub milestone.
type Milestone struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	State        string     `json:"state"`
	CreatedAt    Timestamp  `json:"created_at"`
	UpdatedAt    Timestamp  `json:"updated_at"`
	DueOn        *Timestamp `json:"due_on"`
	OpenIssues   int        `json:"open_issues"`
	ClosedIssues int        `json:"closed_issues"`
}

// PullRequestLinks is non-nil on an Issue exactly when the issue is also a
// pull request.
type PullRequestLinks struct {
	URL      string `json:"url"`
	DiffURL  string `json:"diff_url"`
	PatchURL string `json:"patch_url"`
}

// Issue is the wire shape of a GitHub issue. GitHub's issues endpoint
// conflates issues and pull requests; PullRequestLinks disambiguates.
type Issue struct {
	ID               int64             `json:"id"`
	Number           int               `json:"number"`
	Title            string            `json:"title"`
	Body             string            `json:"body"`
	State            string            `json:"state"`
	Locked           bool              `json:"locked"`
	Comments         int               `json:"comments"`
	User             User              `json:"user"`
	CreatedAt        Timestamp         `json:"created_at"`
	Labels           []Label           `json:"labels"`
	Assignees        []User            `json:"assignees"`
	Milestone        *Milestone        `json:"milestone"`
	PullRequestLinks *PullRequestLinks `json:"pull_request"`
}

// IssueRequest is the payload for creating/editing an issue. Pointer fields
// follow the teacher's convention so omitted fields serialize as absent
// rather than as their zero value.
type IssueRequest struct {
	Title     *string   `json:"title,omitempty"`
	Body      *string   `json:"body,omitempty"`
	Labels    *[]string `json:"labels,omitempty"`
	Assignees *[]string `json:"assignees,omitempty"`
	State     *string   `json:"state,omitempty"`
	Milestone *int      `json:"milestone,omitempty"`
}

// PullRequest is the wire shape of a GitHub pull request.
type PullRequest struct {
	ID           int64      `json:"id"`
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	State        string     `json:"state"`
	User         User       `json:"user"`
	CreatedAt    Timestamp  `json:"created_at"`
	Comments     int        `json:"comments"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	Commits      int        `json:"commits"`
	ChangedFiles int        `json:"changed_files"`
	Merged       bool       `json:"merged"`
	Mergeable    *bool      `json:"mergeable"`
	Draft        bool       `json:"draft"`
	Milestone    *Milestone `json:"milestone"`
	Labels       []Label    `json:"labels"`
	RequestedReviewers []User `json:"requested_reviewers"`
	Head struct {
		Label string `json:"label"`
		SHA   string `json:"sha"`
		Ref   string `json:"ref"`
	} `json:"head"`
	Base struct {
		Label string `json:"label"`
		SHA   string `json:"sha"`
		Ref   string `json:"ref"`
	} `json:"base"`
}

// PullRequestRequest is the payload for creating a pull request.
type PullRequestRequest struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
	Head  *string `json:"head,omitempty"`
	Base  *string `json:"base,omitempty"`
	Draft *bool   `json:"draft,omitempty"`
}

// Commit is the wire shape of a commit as returned by the pull-commits
// listing endpoint.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  Timestamp `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// Comment is the wire shape of an issue/pull comment.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	User      User      `json:"user"`
	CreatedAt Timestamp `json:"created_at"`
}

// CommentRequest is the payload for posting a comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// Repository is the wire shape of a GitHub repository.
type Repository struct {
	ID       int64     `json:"id"`
	FullName string    `json:"full_name"`
	Name     string    `json:"name"`
	Owner    User      `json:"owner"`
	CreatedAt Timestamp `json:"created_at"`
	Private  bool      `json:"private"`
	Fork     bool      `json:"fork"`
	ForksCount int     `json:"forks_count"`
}

// RepositoryRequest is the payload for creating a repository.
type RepositoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

// ReleaseAsset is the wire shape of a single release asset.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Release is the wire shape of a GitHub release.
type Release struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Body        string         `json:"body"`
	Author      User           `json:"author"`
	CreatedAt   Timestamp      `json:"created_at"`
	UploadURL   string         `json:"upload_url"`
	TarballURL  string         `json:"tarball_url"`
	Draft       bool           `json:"draft"`
	Prerelease  bool           `json:"prerelease"`
	Assets      []ReleaseAsset `json:"assets"`
}

// ReleaseRequest is the payload for creating a release.
type ReleaseRequest struct {
	TagName         string `json:"tag_name"`
	TargetCommitish string `json:"target_commitish,omitempty"`
	Name            string `json:"name,omitempty"`
	Body            string `json:"body"`
	Draft           bool   `json:"draft"`
	Prerelease      bool   `json:"prerelease"`
}

// CheckRun is the wire shape of a single GitHub Checks API run.
type CheckRun struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Conclusion  string    `json:"conclusion"`
	StartedAt   Timestamp `json:"started_at"`
	CompletedAt Timestamp `json:"completed_at"`
}

// CheckRunsResponse wraps the list endpoint's envelope.
type CheckRunsResponse struct {
	CheckRuns []CheckRun `json:"check_runs"`
}

// SSHKey is the wire shape of a registered SSH key.
type SSHKey struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Key       string    `json:"key"`
	CreatedAt Timestamp `json:"created_at"`
}

// SSHKeyRequest is the payload for registering a new SSH key.
type SSHKeyRequest struct {
	Title string `json:"title"`
	Key   string `json:"key"`
}

// Notification is the wire shape of a single GitHub notification thread.
type Notification struct {
	ID         string    `json:"id"`
	Reason     string    `json:"reason"`
	UpdatedAt  Timestamp `json:"updated_at"`
	Subject    struct {
		Title string `json:"title"`
		Type  string `json:"type"`
	} `json:"subject"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// APIError is the wire shape of GitHub's standard error envelope.
type APIError struct {
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}
