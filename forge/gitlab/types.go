// Package gitlab adapts the Forge Abstraction Core to the GitLab REST API.
package gitlab

import "time"

// User is the minimal shape of a GitLab user object.
type User struct {
	Username string `json:"username"`
}

// Label is the wire shape of a GitLab label. Color arrives "#RRGGBB",
// unlike GitHub's unprefixed form.
type Label struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Milestone is the wire shape of a GitLab milestone.
type Milestone struct {
	ID          int64      `json:"id"`
	IID         int        `json:"iid"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DueDate     *civilDate `json:"due_date"`
}

// civilDate unmarshals GitLab's date-only "YYYY-MM-DD" milestone due_date.
type civilDate struct{ time.Time }

func (d *civilDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Issue is the wire shape of a GitLab issue.
type Issue struct {
	ID          int64      `json:"id"`
	IID         int        `json:"iid"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       string     `json:"state"`
	Author      User       `json:"author"`
	CreatedAt   time.Time  `json:"created_at"`
	Labels      []string   `json:"labels"`
	Assignees   []User     `json:"assignees"`
	Milestone   *Milestone `json:"milestone"`
	UserNotesCount int     `json:"user_notes_count"`
}

// MergeRequest is the wire shape of a GitLab merge request.
type MergeRequest struct {
	ID                int64      `json:"id"`
	IID               int        `json:"iid"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	State             string     `json:"state"`
	Author            User       `json:"author"`
	CreatedAt         time.Time  `json:"created_at"`
	SourceBranch      string     `json:"source_branch"`
	TargetBranch      string     `json:"target_branch"`
	SHA               string     `json:"sha"`
	DiffRefs          struct {
		BaseSHA string `json:"base_sha"`
	} `json:"diff_refs"`
	Milestone         *Milestone `json:"milestone"`
	UserNotesCount    int        `json:"user_notes_count"`
	ChangesCount      string     `json:"changes_count"`
	Labels            []string   `json:"labels"`
	Reviewers         []User     `json:"reviewers"`
	MergeStatus       string     `json:"merge_status"`
	Draft             bool       `json:"draft"`
	TargetProjectID   int64      `json:"target_project_id"`
	HeadPipeline      *struct {
		ID int64 `json:"id"`
	} `json:"head_pipeline"`
}

// merged synthesizes the canonical "merged" state GitLab doesn't report
// directly: gitlab_mrs_fixup in the original adapter derives it from
// state == "merged" rather than a dedicated boolean field.
func (m MergeRequest) merged() bool { return m.State == "merged" }

// Note is the wire shape of a GitLab issue/MR note (comment).
type Note struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	System    bool      `json:"system"`
}

// Commit is the wire shape of a commit in a merge request's commit listing.
type Commit struct {
	ID             string    `json:"id"`
	ShortID        string    `json:"short_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	AuthorName     string    `json:"author_name"`
	AuthorEmail    string    `json:"author_email"`
	AuthoredDate   time.Time `json:"authored_date"`
}

// Project is the wire shape of a GitLab project (repository).
type Project struct {
	ID                int64     `json:"id"`
	PathWithNamespace string    `json:"path_with_namespace"`
	Name              string    `json:"name"`
	Namespace         struct {
		Path string `json:"path"`
	} `json:"namespace"`
	CreatedAt  time.Time `json:"created_at"`
	Visibility string    `json:"visibility"`
	ForkedFromProject *struct {
		ID int64 `json:"id"`
	} `json:"forked_from_project"`
	ForksCount int `json:"forks_count"`
}

// Release is the wire shape of a GitLab release.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Author      User      `json:"author"`
	Assets      struct {
		Links []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"links"`
	} `json:"assets"`
}

// Pipeline is the wire shape of a GitLab CI pipeline.
type Pipeline struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	Ref       string    `json:"ref"`
	SHA       string    `json:"sha"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	WebURL    string    `json:"web_url"`
}

// SSHKey is the wire shape of a registered GitLab SSH key.
type SSHKey struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

// Todo is the wire shape of a GitLab "to-do" item, GitLab's notification
// analogue.
type Todo struct {
	ID         int64     `json:"id"`
	ActionName string    `json:"action_name"`
	TargetType string    `json:"target_type"`
	UpdatedAt  time.Time `json:"updated_at"`
	Project    struct {
		PathWithNamespace string `json:"path_with_namespace"`
	} `json:"project"`
	Target struct {
		Title string `json:"title"`
	} `json:"target"`
}

// APIError is GitLab's standard error envelope; either "message" or
// "error" may be populated depending on the endpoint.
type APIError struct {
	Message any    `json:"message"`
	Error   string `json:"error"`
}
