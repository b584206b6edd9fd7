package gpuselect

import "sort"

// Role is a logical use of a queue.
type Role int

const (
	RoleGraphics Role = iota
	RolePresentation
)

func (r Role) String() string {
	switch r {
	case RoleGraphics:
		return "graphics"
	case RolePresentation:
		return "presentation"
	}
	return "unknown"
}

// QueueRequest asks for QueueCount queues from one family. Roles lists
// every role served by the family.
type QueueRequest struct {
	FamilyIndex int
	QueueCount  int
	Priorities  []float32
	Roles       []Role
}

// BuildPlan turns a valid report into one request per distinct family, in
// ascending family order. A family serving both graphics and presentation
// yields a single request carrying both roles.
func BuildPlan(report *CapabilityReport) []QueueRequest {
	byFamily := make(map[int]*QueueRequest)
	add := func(family *int, role Role) {
		if family == nil {
			return
		}
		request, ok := byFamily[*family]
		if !ok {
			request = &QueueRequest{
				FamilyIndex: *family,
				QueueCount:  1,
				Priorities:  []float32{1.0},
			}
			byFamily[*family] = request
		}
		request.Roles = append(request.Roles, role)
	}

	add(report.GraphicsFamily, RoleGraphics)
	if report.PresentationRequested {
		add(report.PresentationFamily, RolePresentation)
	}

	plan := make([]QueueRequest, 0, len(byFamily))
	for _, request := range byFamily {
		plan = append(plan, *request)
	}
	sort.Slice(plan, func(i, j int) bool {
		return plan[i].FamilyIndex < plan[j].FamilyIndex
	})
	return plan
}
