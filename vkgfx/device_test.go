package vkgfx

import (
	"testing"

	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/bulletblaster/gpuselect"
)

func TestQueueFlags(t *testing.T) {
	tests := []struct {
		in   core1_0.QueueFlags
		want gpuselect.QueueFlags
	}{
		{0, 0},
		{core1_0.QueueGraphics, gpuselect.QueueGraphics},
		{core1_0.QueueGraphics | core1_0.QueueCompute | core1_0.QueueTransfer, gpuselect.QueueGraphics | gpuselect.QueueCompute | gpuselect.QueueTransfer},
		{core1_0.QueueSparseBinding, gpuselect.QueueSparseBinding},
	}

	for _, tt := range tests {
		if got := queueFlags(tt.in); got != tt.want {
			t.Errorf("queueFlags(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		in   core1_0.PhysicalDeviceType
		want gpuselect.DeviceType
	}{
		{core1_0.PhysicalDeviceTypeDiscreteGPU, gpuselect.DeviceTypeDiscreteGPU},
		{core1_0.PhysicalDeviceTypeIntegratedGPU, gpuselect.DeviceTypeIntegratedGPU},
		{core1_0.PhysicalDeviceTypeVirtualGPU, gpuselect.DeviceTypeVirtualGPU},
		{core1_0.PhysicalDeviceTypeCPU, gpuselect.DeviceTypeCPU},
		{core1_0.PhysicalDeviceTypeOther, gpuselect.DeviceTypeOther},
	}

	for _, tt := range tests {
		if got := deviceType(tt.in); got != tt.want {
			t.Errorf("deviceType(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPhysicalDeviceFeatures(t *testing.T) {
	features, err := physicalDeviceFeatures([]gpuselect.Feature{gpuselect.FeatureSamplerAnisotropy, gpuselect.FeatureWideLines})
	if err != nil {
		t.Fatalf("physicalDeviceFeatures() error = %v", err)
	}
	if !features.SamplerAnisotropy || !features.WideLines {
		t.Errorf("requested features not enabled: %+v", features)
	}
	if features.GeometryShader {
		t.Error("GeometryShader enabled without being requested")
	}

	if _, err := physicalDeviceFeatures([]gpuselect.Feature{"teleportation"}); err == nil {
		t.Error("physicalDeviceFeatures() expected error for unknown feature")
	}
}

func TestSurfaceTarget_RejectsForeignDevice(t *testing.T) {
	target := &surfaceTarget{}
	if _, err := target.SupportsPresentation(nil, 0); err == nil {
		t.Error("SupportsPresentation() expected error for a non-vulkan device")
	}
}
