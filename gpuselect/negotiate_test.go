package gpuselect

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestNegotiate(t *testing.T) {
	integrated := newDevice("integrated", DeviceTypeIntegratedGPU, 4096, QueueGraphics).presents(0).withExtensions(swapchainExt)
	discrete := newDevice("discrete", DeviceTypeDiscreteGPU, 8192, QueueGraphics|QueueCompute, QueueTransfer, QueueCompute).
		presents(2).
		withExtensions(swapchainExt, "VK_KHR_portability_subset")
	discrete.features = map[Feature]bool{FeatureSamplerAnisotropy: true}
	integrated.features = discrete.features

	req := Requirements{
		Extensions:         []string{swapchainExt},
		OptionalExtensions: []string{"VK_KHR_portability_subset", swapchainExt},
		Features:           []Feature{FeatureSamplerAnisotropy},
	}

	negotiated, err := (&Selector{Log: quietLog()}).Negotiate([]PhysicalDevice{integrated, discrete}, &fakeSurface{}, req)
	if err != nil {
		t.Fatalf("Negotiate() error = %v", err)
	}

	if negotiated.Selection.Device != discrete {
		t.Fatalf("selected %s, want discrete", negotiated.Selection.Report.Properties.Name)
	}
	if len(integrated.created) != 0 {
		t.Error("created a device on the losing candidate")
	}
	if len(negotiated.Plan) != 2 {
		t.Errorf("plan has %d requests, want 2", len(negotiated.Plan))
	}
	wantExt := []string{swapchainExt, "VK_KHR_portability_subset"}
	if got := discrete.created[0].Extensions; !reflect.DeepEqual(got, wantExt) {
		t.Errorf("Extensions = %v, want %v", got, wantExt)
	}
	if negotiated.Queues[RoleGraphics] == negotiated.Queues[RolePresentation] {
		t.Error("distinct families should give distinct queues")
	}
	if negotiated.Device != discrete.logical {
		t.Error("Device is not the created logical device")
	}
}

func TestNegotiate_PropagatesErrors(t *testing.T) {
	device := newDevice("gpu", DeviceTypeDiscreteGPU, 8192, QueueGraphics).presents(0)
	device.createErr = errors.New("out of memory")

	_, err := (&Selector{Log: quietLog()}).Negotiate([]PhysicalDevice{device}, &fakeSurface{}, Requirements{})
	var creation *DeviceCreationError
	if !errors.As(err, &creation) {
		t.Fatalf("error = %v, want DeviceCreationError", err)
	}

	_, err = (&Selector{Log: quietLog()}).Negotiate(nil, &fakeSurface{}, Requirements{})
	var noDevice *NoSuitableDeviceError
	if !errors.As(err, &noDevice) {
		t.Fatalf("error = %v, want NoSuitableDeviceError", err)
	}
}
