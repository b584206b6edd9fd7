package gpuselect

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Prober queries a single candidate device. It never fails: driver errors
// are logged and show up as absent fields in the report.
type Prober struct {
	Log logrus.FieldLogger
}

func (p *Prober) log() logrus.FieldLogger {
	if p == nil || p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// Probe builds the capability report for device. target may be nil, in
// which case presentation is not requested.
func (p *Prober) Probe(device PhysicalDevice, target PresentationTarget, req Requirements) *CapabilityReport {
	report := &CapabilityReport{
		PresentationRequested: target != nil,
	}
	log := p.log()

	properties, err := device.Properties()
	if err != nil {
		log.WithError(err).Warn("could not get physical device properties")
	} else {
		report.Properties = properties
		log = log.WithField("device", properties.Name)
	}

	for _, family := range device.QueueFamilies() {
		if report.GraphicsFamily == nil && family.Flags&QueueGraphics != 0 {
			index := family.Index
			report.GraphicsFamily = &index
		}

		if target == nil || report.PresentationFamily != nil {
			continue
		}
		supported, err := target.SupportsPresentation(device, family.Index)
		if err != nil {
			log.WithError(err).WithField("family", family.Index).Warn("could not query surface support")
			continue
		}
		if supported {
			index := family.Index
			report.PresentationFamily = &index
		}
	}

	extensions, err := device.Extensions()
	if err != nil {
		log.WithError(err).Warn("could not enumerate device extensions")
	}
	report.MissingExtensions = missingNames(req.Extensions, extensions)
	for _, name := range uniqueNames(req.OptionalExtensions) {
		if _, ok := extensions[name]; ok {
			report.OptionalExtensions = append(report.OptionalExtensions, name)
		}
	}

	if len(req.Features) > 0 {
		features := device.Features()
		seen := make(map[Feature]struct{}, len(req.Features))
		for _, feature := range req.Features {
			if _, dup := seen[feature]; dup {
				continue
			}
			seen[feature] = struct{}{}
			if !features[feature] {
				report.MissingFeatures = append(report.MissingFeatures, feature)
			}
		}
	}

	return report
}

// missingNames returns the sorted set difference required - supported.
func missingNames(required []string, supported map[string]struct{}) []string {
	var missing []string
	for _, name := range uniqueNames(required) {
		if _, ok := supported[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func uniqueNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}
