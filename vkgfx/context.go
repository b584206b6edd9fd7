// Package vkgfx owns the Vulkan objects of the game client: instance, debug
// messenger, window surface, logical device and queues. Device choice is
// delegated to gpuselect.
package vkgfx

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/bulletblaster/gpuselect"
)

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}

type Options struct {
	ApplicationName string
	// InstanceExtensions are enabled in addition to the window's.
	InstanceExtensions []string
	Validation         bool

	// RequirePresentation rejects devices that cannot present to the
	// window surface. Ignored without a window.
	RequirePresentation bool
	Requirements        gpuselect.Requirements
	Score               gpuselect.ScoreFunc

	Log logrus.FieldLogger
}

// Context holds the graphics objects for the lifetime of the renderer. Only
// Destroy may release them.
type Context struct {
	options Options
	log     logrus.FieldLogger

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver

	debugDriver      ext_debug_utils.ExtensionDriver
	debugMessenger   ext_debug_utils.DebugUtilsMessenger
	surfaceExtension khr_surface.ExtensionDriver
	surface          khr_surface.Surface

	negotiated    *gpuselect.Negotiated
	deviceDriver  core1_0.CoreDeviceDriver
	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue
}

// NewContext creates the instance and surface for window, then selects and
// provisions a device.
func NewContext(window *sdl.Window, options Options) (*Context, error) {
	c, err := NewInstance(sdl.VulkanGetVkGetInstanceProcAddr(), window, options)
	if err != nil {
		return nil, err
	}

	if err := c.Negotiate(); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

// NewInstance creates the instance, the debug messenger when validation is
// on, and a surface when window is not nil. No device is created.
func NewInstance(procAddr unsafe.Pointer, window *sdl.Window, options Options) (*Context, error) {
	c := &Context{
		options: options,
		log:     options.Log,
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}

	var err error
	c.globalDriver, err = core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "loading vulkan")
	}

	err = c.createInstance(window)
	if err != nil {
		return nil, err
	}

	err = c.setupDebugMessenger()
	if err != nil {
		c.Destroy()
		return nil, err
	}

	if window != nil {
		err = c.createSurface(window)
		if err != nil {
			c.Destroy()
			return nil, err
		}
	}

	return c, nil
}

func (c *Context) createInstance(window *sdl.Window) error {
	available, _, err := c.globalDriver.AvailableExtensions()
	if err != nil {
		return errors.Wrap(err, "listing instance extensions")
	}

	wanted := append([]string{}, c.options.InstanceExtensions...)
	if window != nil {
		wanted = append(wanted, window.VulkanGetInstanceExtensions()...)
	}
	for _, ext := range wanted {
		if _, ok := available[ext]; !ok {
			return errors.Errorf("missing instance extension %s", ext)
		}
	}

	info := core1_0.InstanceCreateInfo{
		ApplicationName:       c.options.ApplicationName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            "bulletblaster",
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_2,
		EnabledExtensionNames: wanted,
	}

	// MoltenVK only shows up when portability enumeration is enabled.
	if _, ok := available[khr_portability_enumeration.ExtensionName]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if c.options.Validation {
		layers, _, err := c.globalDriver.AvailableLayers()
		if err != nil {
			return errors.Wrap(err, "listing instance layers")
		}
		for _, layer := range validationLayers {
			if _, ok := layers[layer]; !ok {
				return errors.Errorf("validation layer %s not available, install the Vulkan SDK", layer)
			}
		}

		info.EnabledLayerNames = validationLayers
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)
		// Covers messages from instance creation and destruction.
		info.Next = c.debugMessengerOptions()
	}

	instance, _, err := c.globalDriver.CreateInstance(nil, info)
	if err != nil {
		return errors.Wrap(err, "creating vulkan instance")
	}

	c.instanceDriver, err = c.globalDriver.BuildInstanceDriver(instance)
	if err != nil {
		return errors.Wrap(err, "loading instance commands")
	}
	return nil
}

func (c *Context) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    c.logDebug,
	}
}

func (c *Context) setupDebugMessenger() error {
	if !c.options.Validation {
		return nil
	}

	var err error
	c.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(c.instanceDriver)
	c.debugMessenger, _, err = c.debugDriver.CreateDebugUtilsMessenger(nil, c.debugMessengerOptions())
	return errors.Wrap(err, "creating debug messenger")
}

func (c *Context) createSurface(window *sdl.Window) error {
	c.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(c.instanceDriver)
	surface, err := vkng_sdl2.CreateSurface(c.instanceDriver.Instance(), c.surfaceExtension, window)
	if err != nil {
		return errors.Wrap(err, "creating window surface")
	}

	c.surface = surface
	return nil
}

// Candidates enumerates the physical devices visible to the instance.
func (c *Context) Candidates() ([]gpuselect.PhysicalDevice, error) {
	physicalDevices, _, err := c.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating physical devices")
	}

	candidates := make([]gpuselect.PhysicalDevice, len(physicalDevices))
	for i, device := range physicalDevices {
		candidates[i] = &physicalDevice{driver: c.instanceDriver, handle: device}
	}
	return candidates, nil
}

// PresentationTarget is the window surface, or nil when presentation is not
// required or there is no window.
func (c *Context) PresentationTarget() gpuselect.PresentationTarget {
	if !c.options.RequirePresentation || !c.surface.Initialized() {
		return nil
	}
	return &surfaceTarget{extension: c.surfaceExtension, surface: c.surface}
}

// Negotiate selects and provisions the device. It may only succeed once.
func (c *Context) Negotiate() error {
	if c.negotiated != nil {
		return errors.New("device already negotiated")
	}

	start := hrtime.Now()
	candidates, err := c.Candidates()
	if err != nil {
		return err
	}

	selector := &gpuselect.Selector{
		Prober: gpuselect.Prober{Log: c.log},
		Score:  c.options.Score,
		Log:    c.log,
	}
	negotiated, err := selector.Negotiate(candidates, c.PresentationTarget(), c.options.Requirements)
	if err != nil {
		return err
	}

	c.negotiated = negotiated
	c.deviceDriver = negotiated.Device.(*logicalDevice).driver
	if queue, ok := negotiated.Queues[gpuselect.RoleGraphics].(core1_0.Queue); ok {
		c.graphicsQueue = queue
	}
	if queue, ok := negotiated.Queues[gpuselect.RolePresentation].(core1_0.Queue); ok {
		c.presentQueue = queue
	}

	c.log.WithFields(logrus.Fields{
		"device":     negotiated.Selection.Report.Properties.Name,
		"candidates": len(candidates),
		"queues":     len(negotiated.Plan),
		"elapsed":    hrtime.Since(start),
	}).Info("graphics device ready")
	return nil
}

// Selection is the chosen physical device, nil before Negotiate.
func (c *Context) Selection() *gpuselect.Selection {
	if c.negotiated == nil {
		return nil
	}
	return c.negotiated.Selection
}

func (c *Context) DeviceDriver() core1_0.CoreDeviceDriver { return c.deviceDriver }

func (c *Context) GraphicsQueue() core1_0.Queue { return c.graphicsQueue }

// PresentQueue may be the same queue as GraphicsQueue; submissions to the
// two must then be serialized by the caller.
func (c *Context) PresentQueue() core1_0.Queue { return c.presentQueue }

// Destroy releases everything in dependency order: device, debug messenger,
// surface, instance. Safe to call more than once.
func (c *Context) Destroy() {
	if c.negotiated != nil {
		c.negotiated.Device.Destroy()
		c.negotiated = nil
		c.deviceDriver = nil
		c.graphicsQueue = core1_0.Queue{}
		c.presentQueue = core1_0.Queue{}
	}

	if c.debugMessenger.Initialized() {
		c.debugDriver.DestroyDebugUtilsMessenger(c.debugMessenger, nil)
		c.debugMessenger = ext_debug_utils.DebugUtilsMessenger{}
	}

	if c.surface.Initialized() {
		c.surfaceExtension.DestroySurface(c.surface, nil)
		c.surface = khr_surface.Surface{}
	}

	if c.instanceDriver != nil {
		c.instanceDriver.DestroyInstance(nil)
		c.instanceDriver = nil
	}
}

func (c *Context) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	entry := c.log.WithFields(logrus.Fields{
		"severity": severity,
		"type":     msgType,
	})
	if severity&ext_debug_utils.SeverityError != 0 {
		entry.Error(data.Message)
	} else {
		entry.Warn(data.Message)
	}
	return false
}
