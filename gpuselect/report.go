package gpuselect

import (
	"fmt"
	"strings"
)

// CapabilityReport is what the prober learned about one candidate.
type CapabilityReport struct {
	Properties *DeviceProperties

	// GraphicsFamily is the first family with the graphics bit, or nil.
	GraphicsFamily *int
	// PresentationFamily is the first family able to present to the target,
	// or nil. Always nil when presentation was not requested.
	PresentationFamily    *int
	PresentationRequested bool

	MissingExtensions  []string
	MissingFeatures    []Feature
	OptionalExtensions []string
}

// Valid reports whether the device satisfies every hard requirement.
func (r *CapabilityReport) Valid() bool {
	return len(r.Problems()) == 0
}

// Problems lists every unmet requirement in a human readable form.
func (r *CapabilityReport) Problems() []string {
	var problems []string
	if r.Properties == nil {
		problems = append(problems, "device properties unavailable")
	}
	if r.GraphicsFamily == nil {
		problems = append(problems, "no graphics-capable queue family")
	}
	if r.PresentationRequested && r.PresentationFamily == nil {
		problems = append(problems, "no queue family can present to the surface")
	}
	if len(r.MissingExtensions) > 0 {
		problems = append(problems, fmt.Sprintf("missing extensions %s", strings.Join(r.MissingExtensions, ", ")))
	}
	if len(r.MissingFeatures) > 0 {
		names := make([]string, len(r.MissingFeatures))
		for i, f := range r.MissingFeatures {
			names[i] = string(f)
		}
		problems = append(problems, fmt.Sprintf("missing features %s", strings.Join(names, ", ")))
	}
	return problems
}

func (r *CapabilityReport) deviceName() string {
	if r.Properties == nil {
		return "<unknown>"
	}
	return r.Properties.Name
}
