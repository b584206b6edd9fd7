package gpuselect

// DiscreteBonus is added to the score of discrete GPUs by DefaultScore.
const DiscreteBonus = 3000

// ScoreFunc ranks a valid candidate; higher wins.
type ScoreFunc func(properties *DeviceProperties) uint64

// DefaultScore favours discrete GPUs, then the largest supported 2D image.
func DefaultScore(properties *DeviceProperties) uint64 {
	return WeightedScore(DiscreteBonus)(properties)
}

// WeightedScore is DefaultScore with a configurable discrete GPU bonus.
func WeightedScore(discreteBonus uint64) ScoreFunc {
	return func(properties *DeviceProperties) uint64 {
		var score uint64
		if properties.Type == DeviceTypeDiscreteGPU {
			score += discreteBonus
		}
		return score + uint64(properties.MaxImageDimension2D)
	}
}
