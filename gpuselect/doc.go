// Package gpuselect negotiates a rendering device: it probes every candidate
// physical device for graphics and presentation queue families and required
// extensions, picks the highest scoring valid candidate, builds a deduplicated
// queue plan for it and provisions the logical device and its queues.
//
// The package never talks to a graphics API directly. Drivers are reached
// through PhysicalDevice, PresentationTarget and LogicalDevice, which vkgfx
// implements on top of vkngwrapper.
package gpuselect
