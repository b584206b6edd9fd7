package gpuselect

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Negotiated is the full result of device negotiation.
type Negotiated struct {
	Selection *Selection
	Plan      []QueueRequest
	*Provisioned
}

// Negotiate selects a device, plans its queues and provisions it. Both
// failure kinds are fatal to graphics initialization.
func (s *Selector) Negotiate(candidates []PhysicalDevice, target PresentationTarget, req Requirements) (*Negotiated, error) {
	selection, err := s.Select(candidates, target, req)
	if err != nil {
		return nil, err
	}

	plan := BuildPlan(selection.Report)
	provisioned, err := Provision(selection.Device, plan, req.enabledExtensions(selection.Report), req.Features)
	if err != nil {
		return nil, errors.Wrapf(err, "provisioning %s", selection.Report.Properties.Name)
	}

	for _, request := range plan {
		s.log().WithFields(logrus.Fields{
			"family": request.FamilyIndex,
			"roles":  request.Roles,
		}).Debug("created queue")
	}

	return &Negotiated{
		Selection:   selection,
		Plan:        plan,
		Provisioned: provisioned,
	}, nil
}
