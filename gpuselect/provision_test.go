package gpuselect

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestProvision_SharedFamilyAliasesQueue(t *testing.T) {
	device := newDevice("gpu", DeviceTypeDiscreteGPU, 8192, QueueGraphics)
	plan := BuildPlan(&CapabilityReport{GraphicsFamily: intPtr(0), PresentationRequested: true, PresentationFamily: intPtr(0)})

	provisioned, err := Provision(device, plan, []string{swapchainExt}, nil)
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if len(device.created) != 1 {
		t.Fatalf("CreateDevice called %d times, want 1", len(device.created))
	}
	if got := device.created[0].Extensions; !reflect.DeepEqual(got, []string{swapchainExt}) {
		t.Errorf("Extensions = %v", got)
	}
	graphics := provisioned.Queues[RoleGraphics]
	presentation := provisioned.Queues[RolePresentation]
	if graphics == nil || graphics != presentation {
		t.Fatalf("graphics %v and presentation %v should be the same queue", graphics, presentation)
	}
	if q := graphics.(*fakeQueue); q.family != 0 || q.index != 0 {
		t.Errorf("queue = family %d index %d, want 0/0", q.family, q.index)
	}
}

func TestProvision_DistinctFamilies(t *testing.T) {
	device := newDevice("gpu", DeviceTypeDiscreteGPU, 8192, QueueGraphics, QueueTransfer, QueueTransfer, QueueCompute)
	plan := BuildPlan(&CapabilityReport{GraphicsFamily: intPtr(0), PresentationRequested: true, PresentationFamily: intPtr(3)})

	provisioned, err := Provision(device, plan, nil, []Feature{FeatureSamplerAnisotropy})
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if got := len(device.created[0].Queues); got != 2 {
		t.Errorf("created with %d queue requests, want 2", got)
	}
	if got := device.created[0].Features; !reflect.DeepEqual(got, []Feature{FeatureSamplerAnisotropy}) {
		t.Errorf("Features = %v", got)
	}
	if q := provisioned.Queues[RoleGraphics].(*fakeQueue); q.family != 0 {
		t.Errorf("graphics family = %d, want 0", q.family)
	}
	if q := provisioned.Queues[RolePresentation].(*fakeQueue); q.family != 3 {
		t.Errorf("presentation family = %d, want 3", q.family)
	}
}

func TestProvision_Errors(t *testing.T) {
	driverErr := errors.New("VK_ERROR_INITIALIZATION_FAILED")
	tests := []struct {
		name  string
		plan  []QueueRequest
		fails error
	}{
		{name: "empty plan"},
		{
			name: "duplicate family",
			plan: []QueueRequest{
				{FamilyIndex: 1, QueueCount: 1, Priorities: []float32{1}, Roles: []Role{RoleGraphics}},
				{FamilyIndex: 1, QueueCount: 1, Priorities: []float32{1}, Roles: []Role{RolePresentation}},
			},
		},
		{
			name: "priority count mismatch",
			plan: []QueueRequest{{FamilyIndex: 0, QueueCount: 2, Priorities: []float32{1}}},
		},
		{
			name:  "driver rejects",
			plan:  []QueueRequest{{FamilyIndex: 0, QueueCount: 1, Priorities: []float32{1}, Roles: []Role{RoleGraphics}}},
			fails: driverErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := newDevice("gpu", DeviceTypeDiscreteGPU, 8192, QueueGraphics)
			device.createErr = tt.fails

			_, err := Provision(device, tt.plan, nil, nil)
			var creation *DeviceCreationError
			if !errors.As(err, &creation) {
				t.Fatalf("Provision() error = %v, want DeviceCreationError", err)
			}
			if creation.Device != "gpu" {
				t.Errorf("Device = %q, want gpu", creation.Device)
			}
			if tt.fails != nil && !errors.Is(err, tt.fails) {
				t.Errorf("error %v does not wrap the driver error", err)
			}
			if tt.fails == nil && len(device.created) != 0 {
				t.Error("CreateDevice called for an unusable plan")
			}
		})
	}
}
