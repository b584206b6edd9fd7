package gpuselect

import (
	"github.com/cockroachdb/errors"
)

// Provisioned is a created logical device and its queues by role. Roles
// sharing a family share the same Queue.
type Provisioned struct {
	Device LogicalDevice
	Queues map[Role]Queue
}

// Provision creates the logical device in one call with the full plan, the
// given extensions and features, then fetches queue 0 of each planned
// family. Errors are *DeviceCreationError.
func Provision(device PhysicalDevice, plan []QueueRequest, extensions []string, features []Feature) (*Provisioned, error) {
	name := "<unknown>"
	if properties, err := device.Properties(); err == nil {
		name = properties.Name
	}
	fail := func(cause error) error {
		return errors.WithStack(&DeviceCreationError{Device: name, Cause: cause})
	}

	if len(plan) == 0 {
		return nil, fail(errors.New("empty queue plan"))
	}
	seen := make(map[int]struct{}, len(plan))
	for _, request := range plan {
		if _, dup := seen[request.FamilyIndex]; dup {
			return nil, fail(errors.Newf("queue family %d requested twice", request.FamilyIndex))
		}
		seen[request.FamilyIndex] = struct{}{}
		if request.QueueCount < 1 || len(request.Priorities) != request.QueueCount {
			return nil, fail(errors.Newf("queue family %d: %d priorities for %d queues",
				request.FamilyIndex, len(request.Priorities), request.QueueCount))
		}
	}

	logical, err := device.CreateDevice(DeviceCreateInfo{
		Queues:     plan,
		Extensions: extensions,
		Features:   features,
	})
	if err != nil {
		return nil, fail(err)
	}

	provisioned := &Provisioned{
		Device: logical,
		Queues: make(map[Role]Queue),
	}
	for _, request := range plan {
		queue := logical.Queue(request.FamilyIndex, 0)
		for _, role := range request.Roles {
			provisioned.Queues[role] = queue
		}
	}
	return provisioned, nil
}
