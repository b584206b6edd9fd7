package vkgfx

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/bulletblaster/gpuselect"
)

type physicalDevice struct {
	driver core1_0.CoreInstanceDriver
	handle core1_0.PhysicalDevice
}

func (d *physicalDevice) Properties() (*gpuselect.DeviceProperties, error) {
	properties, err := d.driver.GetPhysicalDeviceProperties(d.handle)
	if err != nil {
		return nil, err
	}

	return &gpuselect.DeviceProperties{
		Name:                properties.DriverName,
		Type:                deviceType(properties.DriverType),
		VendorID:            properties.VendorID,
		DeviceID:            properties.DeviceID,
		APIVersion:          fmt.Sprint(properties.APIVersion),
		DriverVersion:       fmt.Sprint(properties.DriverVersion),
		PipelineCacheUUID:   properties.PipelineCacheUUID,
		MaxImageDimension2D: uint32(properties.Limits.MaxImageDimension2D),
	}, nil
}

func (d *physicalDevice) QueueFamilies() []gpuselect.QueueFamily {
	queueFamilies := d.driver.GetPhysicalDeviceQueueFamilyProperties(d.handle)

	families := make([]gpuselect.QueueFamily, len(queueFamilies))
	for queueFamilyIdx, queueFamily := range queueFamilies {
		families[queueFamilyIdx] = gpuselect.QueueFamily{
			Index:      queueFamilyIdx,
			Flags:      queueFlags(queueFamily.QueueFlags),
			QueueCount: queueFamily.QueueCount,
		}
	}
	return families
}

func (d *physicalDevice) Extensions() (map[string]struct{}, error) {
	extensions, _, err := d.driver.EnumerateDeviceExtensionProperties(d.handle)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(extensions))
	for name := range extensions {
		names[name] = struct{}{}
	}
	return names, nil
}

func (d *physicalDevice) Features() map[gpuselect.Feature]bool {
	features := d.driver.GetPhysicalDeviceFeatures(d.handle)
	return map[gpuselect.Feature]bool{
		gpuselect.FeatureSamplerAnisotropy: features.SamplerAnisotropy,
		gpuselect.FeatureGeometryShader:    features.GeometryShader,
		gpuselect.FeatureFillModeNonSolid:  features.FillModeNonSolid,
		gpuselect.FeatureWideLines:         features.WideLines,
		gpuselect.FeatureMultiDrawIndirect: features.MultiDrawIndirect,
	}
}

func (d *physicalDevice) CreateDevice(info gpuselect.DeviceCreateInfo) (gpuselect.LogicalDevice, error) {
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	for _, request := range info.Queues {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: request.FamilyIndex,
			QueuePriorities:  request.Priorities,
		})
	}

	enabledFeatures, err := physicalDeviceFeatures(info.Features)
	if err != nil {
		return nil, err
	}

	device, _, err := d.driver.CreateDevice(d.handle, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       enabledFeatures,
		EnabledExtensionNames: info.Extensions,
	})
	if err != nil {
		return nil, err
	}

	deviceDriver, err := d.driver.BuildDeviceDriver(device)
	if err != nil {
		return nil, errors.Wrap(err, "loading device commands")
	}

	return &logicalDevice{driver: deviceDriver}, nil
}

type logicalDevice struct {
	driver core1_0.CoreDeviceDriver
}

func (d *logicalDevice) Queue(queueFamily, index int) gpuselect.Queue {
	return d.driver.GetQueue(queueFamily, index)
}

func (d *logicalDevice) Destroy() {
	d.driver.DestroyDevice(nil)
}

type surfaceTarget struct {
	extension khr_surface.ExtensionDriver
	surface   khr_surface.Surface
}

func (s *surfaceTarget) SupportsPresentation(device gpuselect.PhysicalDevice, queueFamily int) (bool, error) {
	vkDevice, ok := device.(*physicalDevice)
	if !ok {
		return false, errors.Newf("%T is not a vulkan physical device", device)
	}

	supported, _, err := s.extension.GetPhysicalDeviceSurfaceSupport(s.surface, vkDevice.handle, queueFamily)
	if err != nil {
		return false, err
	}
	return supported, nil
}

func deviceType(t core1_0.PhysicalDeviceType) gpuselect.DeviceType {
	switch t {
	case core1_0.PhysicalDeviceTypeIntegratedGPU:
		return gpuselect.DeviceTypeIntegratedGPU
	case core1_0.PhysicalDeviceTypeDiscreteGPU:
		return gpuselect.DeviceTypeDiscreteGPU
	case core1_0.PhysicalDeviceTypeVirtualGPU:
		return gpuselect.DeviceTypeVirtualGPU
	case core1_0.PhysicalDeviceTypeCPU:
		return gpuselect.DeviceTypeCPU
	}
	return gpuselect.DeviceTypeOther
}

func queueFlags(flags core1_0.QueueFlags) gpuselect.QueueFlags {
	var out gpuselect.QueueFlags
	if flags&core1_0.QueueGraphics != 0 {
		out |= gpuselect.QueueGraphics
	}
	if flags&core1_0.QueueCompute != 0 {
		out |= gpuselect.QueueCompute
	}
	if flags&core1_0.QueueTransfer != 0 {
		out |= gpuselect.QueueTransfer
	}
	if flags&core1_0.QueueSparseBinding != 0 {
		out |= gpuselect.QueueSparseBinding
	}
	return out
}

func physicalDeviceFeatures(features []gpuselect.Feature) (*core1_0.PhysicalDeviceFeatures, error) {
	enabled := &core1_0.PhysicalDeviceFeatures{}
	for _, feature := range features {
		switch feature {
		case gpuselect.FeatureSamplerAnisotropy:
			enabled.SamplerAnisotropy = true
		case gpuselect.FeatureGeometryShader:
			enabled.GeometryShader = true
		case gpuselect.FeatureFillModeNonSolid:
			enabled.FillModeNonSolid = true
		case gpuselect.FeatureWideLines:
			enabled.WideLines = true
		case gpuselect.FeatureMultiDrawIndirect:
			enabled.MultiDrawIndirect = true
		default:
			return nil, errors.Newf("unsupported device feature %q", feature)
		}
	}
	return enabled, nil
}
