// Package bugzilla adapts the Forge Abstraction Core to the Bugzilla REST
// API. Bugzilla has no notion of pulls, releases, labels, repos, SSH keys,
// or forks, so Adapter only overrides the issue/comment/attachment methods
// and leaves the rest to UnimplementedForge's dispatch-error default.
package bugzilla

import "time"

// Bug is the wire shape of a single entry in a /rest/bug search response.
type Bug struct {
	ID           int64     `json:"id"`
	Summary      string    `json:"summary"`
	Status       string    `json:"status"`
	CreationTime time.Time `json:"creation_time"`
	Creator      string    `json:"creator"`
	AssignedTo   string    `json:"assigned_to"`
	Product      string    `json:"product"`
	Component    string    `json:"component"`
	Keywords     []string  `json:"keywords"`
	TargetMilestone string `json:"target_milestone"`
}

// BugsResponse wraps /rest/bug's list envelope.
type BugsResponse struct {
	Bugs []Bug `json:"bugs"`
}

// APIError is Bugzilla's standard error envelope.
type APIError struct {
	Error   bool   `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}
