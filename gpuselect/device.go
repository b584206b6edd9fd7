package gpuselect

import (
	"fmt"

	"github.com/google/uuid"
)

// QueueFlags is the capability bitmask of a queue family.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

func (f QueueFlags) String() string {
	var s string
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if f&QueueGraphics != 0 {
		add("Graphics")
	}
	if f&QueueCompute != 0 {
		add("Compute")
	}
	if f&QueueTransfer != 0 {
		add("Transfer")
	}
	if f&QueueSparseBinding != 0 {
		add("SparseBinding")
	}
	if s == "" {
		return "None"
	}
	return s
}

// QueueFamily describes one entry of a device's queue family list. Index is
// the position in that list.
type QueueFamily struct {
	Index      int
	Flags      QueueFlags
	QueueCount int
}

type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeOther:         "Other",
	DeviceTypeIntegratedGPU: "Integrated GPU",
	DeviceTypeDiscreteGPU:   "Discrete GPU",
	DeviceTypeVirtualGPU:    "Virtual GPU",
	DeviceTypeCPU:           "CPU",
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

// DeviceProperties is the subset of physical device properties that
// selection and diagnostics care about.
type DeviceProperties struct {
	Name              string
	Type              DeviceType
	VendorID          uint32
	DeviceID          uint32
	APIVersion        string
	DriverVersion     string
	PipelineCacheUUID uuid.UUID

	MaxImageDimension2D uint32
}

// Feature names an optional device feature, using the Vulkan member name.
type Feature string

const (
	FeatureSamplerAnisotropy Feature = "samplerAnisotropy"
	FeatureGeometryShader    Feature = "geometryShader"
	FeatureFillModeNonSolid  Feature = "fillModeNonSolid"
	FeatureWideLines         Feature = "wideLines"
	FeatureMultiDrawIndirect Feature = "multiDrawIndirect"
)

var knownFeatures = map[Feature]struct{}{
	FeatureSamplerAnisotropy: {},
	FeatureGeometryShader:    {},
	FeatureFillModeNonSolid:  {},
	FeatureWideLines:         {},
	FeatureMultiDrawIndirect: {},
}

// Known reports whether f is one of the features a device can be asked for.
func (f Feature) Known() bool {
	_, ok := knownFeatures[f]
	return ok
}

// PhysicalDevice is a candidate rendering device. Implementations only
// query the driver; they hold no state that changes during selection.
type PhysicalDevice interface {
	Properties() (*DeviceProperties, error)
	QueueFamilies() []QueueFamily
	Extensions() (map[string]struct{}, error)
	Features() map[Feature]bool
	CreateDevice(info DeviceCreateInfo) (LogicalDevice, error)
}

// PresentationTarget is a platform surface that queue families may be able
// to present to.
type PresentationTarget interface {
	SupportsPresentation(device PhysicalDevice, queueFamily int) (bool, error)
}

// Queue is an opaque driver queue handle.
type Queue interface{}

// LogicalDevice is a created device connection.
type LogicalDevice interface {
	Queue(queueFamily, index int) Queue
	Destroy()
}

// DeviceCreateInfo is everything passed to the single device creation call.
type DeviceCreateInfo struct {
	Queues     []QueueRequest
	Extensions []string
	Features   []Feature
}
