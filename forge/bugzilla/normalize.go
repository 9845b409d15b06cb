package bugzilla

import "github.com/herrhotzenplotz/gcli"

func normalizeBug(b Bug) gcli.Issue {
	assignees := []string(nil)
	if b.AssignedTo != "" {
		assignees = []string{b.AssignedTo}
	}
	return gcli.Issue{
		ID:        uint64(b.ID),
		Title:     b.Summary,
		CreatedAt: b.CreationTime,
		Author:    b.Creator,
		State:     b.Status,
		Labels:    b.Keywords,
		Assignees: assignees,
		Milestone: b.TargetMilestone,
		Product:   b.Product,
		Component: b.Component,
	}
}
