package gpuselect

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Selection is the winning candidate along with the report it won with.
type Selection struct {
	Device PhysicalDevice
	Report *CapabilityReport
	Score  uint64
	// Index is the candidate's position in the enumeration order.
	Index int
}

// Evaluation is the verdict on a single candidate.
type Evaluation struct {
	Index    int
	Device   PhysicalDevice
	Report   *CapabilityReport
	Problems []string
	// Score is zero for rejected candidates.
	Score uint64
}

func (e *Evaluation) Valid() bool {
	return len(e.Problems) == 0
}

// Selector picks the best valid candidate in a single pass.
type Selector struct {
	Prober Prober
	// Score ranks valid candidates. DefaultScore when nil.
	Score ScoreFunc
	Log   logrus.FieldLogger
}

func (s *Selector) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// Evaluate reports on every candidate in enumeration order. Rejected
// candidates are never scored.
func (s *Selector) Evaluate(candidates []PhysicalDevice, target PresentationTarget, req Requirements) []Evaluation {
	score := s.Score
	if score == nil {
		score = DefaultScore
	}
	prober := s.Prober
	if prober.Log == nil {
		prober.Log = s.Log
	}

	evaluations := make([]Evaluation, len(candidates))
	for i, device := range candidates {
		report := prober.Probe(device, target, req)
		evaluations[i] = Evaluation{
			Index:    i,
			Device:   device,
			Report:   report,
			Problems: report.Problems(),
		}

		if !evaluations[i].Valid() {
			s.log().WithFields(logrus.Fields{
				"candidate": i,
				"device":    report.deviceName(),
				"problems":  evaluations[i].Problems,
			}).Debug("rejecting candidate device")
			continue
		}

		evaluations[i].Score = score(report.Properties)
		s.log().WithFields(logrus.Fields{
			"candidate": i,
			"device":    report.Properties.Name,
			"type":      report.Properties.Type,
			"score":     evaluations[i].Score,
		}).Debug("candidate device is suitable")
	}
	return evaluations
}

// Best returns the position of the highest scoring valid evaluation, or -1
// when none is valid. On equal scores the earlier one wins.
func Best(evaluations []Evaluation) int {
	best := -1
	for i := range evaluations {
		if !evaluations[i].Valid() {
			continue
		}
		if best < 0 || evaluations[i].Score > evaluations[best].Score {
			best = i
		}
	}
	return best
}

// Select evaluates candidates in order, discards invalid ones and returns
// the highest scoring survivor. On equal scores the earlier candidate wins.
// The error is a *NoSuitableDeviceError when nothing survives.
func (s *Selector) Select(candidates []PhysicalDevice, target PresentationTarget, req Requirements) (*Selection, error) {
	evaluations := s.Evaluate(candidates, target, req)

	best := Best(evaluations)
	if best < 0 {
		rejections := make([]Rejection, 0, len(evaluations))
		for _, e := range evaluations {
			rejections = append(rejections, Rejection{Index: e.Index, Device: e.Report.deviceName(), Problems: e.Problems})
		}
		return nil, errors.WithStack(&NoSuitableDeviceError{
			Candidates: len(candidates),
			Rejections: rejections,
		})
	}

	winner := evaluations[best]
	s.log().WithFields(logrus.Fields{
		"device": winner.Report.Properties.Name,
		"type":   winner.Report.Properties.Type,
		"score":  winner.Score,
	}).Info("selected physical device")
	return &Selection{
		Device: winner.Device,
		Report: winner.Report,
		Score:  winner.Score,
		Index:  winner.Index,
	}, nil
}
