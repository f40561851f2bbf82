package service

import (
	"sort"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// DescendantsOf returns the ids of every user reporting to managerID, directly or
// transitively. The manager itself is excluded. Cyclic reporting lines are tolerated.
func DescendantsOf(managerID string, users []domain.User) map[string]struct{} {
	result := map[string]struct{}{}
	if managerID == "" {
		return result
	}

	reports := make(map[string][]string, len(users))
	for _, u := range users {
		if u.ManagerID == nil || *u.ManagerID == "" {
			continue
		}
		reports[*u.ManagerID] = append(reports[*u.ManagerID], u.ID)
	}

	visited := map[string]struct{}{managerID: {}}
	queue := []string{managerID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range reports[current] {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			result[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return result
}

// SortedIDs flattens an id set into a stable slice.
func SortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
