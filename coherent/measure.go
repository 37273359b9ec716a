package coherent

import "math"

// tolerance below which an outcome probability is treated as exactly 0 or 1.
const tolerance = 1e-12

// Prob returns the probability of measuring |1> on qubit.
func (cu *CoherentUnit) Prob(qubit int) float64 {
	bit := uint64(1) << qubit

	var prob float64
	for i, amp := range cu.stateVec {
		if uint64(i)&bit != 0 {
			prob += norm(amp)
		}
	}

	return math.Min(prob, 1)
}

/*
M measures qubit, collapsing the state onto the observed outcome and
renormalising the surviving amplitudes.
*/
func (cu *CoherentUnit) M(qubit int) bool {
	prob := cu.Prob(qubit)

	var result bool
	switch {
	case prob < tolerance:
		result = false
	case prob > 1-tolerance:
		result = true
	default:
		result = cu.rng.Float64() < prob
	}

	bit := uint64(1) << qubit
	want := uint64(0)
	keep := 1 - prob
	if result {
		want = bit
		keep = prob
	}

	cu.collapse(bit, want, keep)
	return result
}

/*
MReg measures [start, start+length) as one unsigned integer. Outcome
probabilities are accumulated per register value and a single draw selects
the value the register collapses to.
*/
func (cu *CoherentUnit) MReg(start, length int) uint64 {
	regPower := uint64(1) << length
	regMask := (regPower - 1) << start

	probs := make([]float64, regPower)
	var totalProb float64
	for i, amp := range cu.stateVec {
		p := norm(amp)
		probs[(uint64(i)&regMask)>>start] += p
		totalProb += p
	}

	r := cu.rng.Float64() * totalProb

	var (
		cumulativeProb float64
		measured       uint64
	)
	for value, p := range probs {
		if p < tolerance {
			continue
		}
		measured = uint64(value)
		cumulativeProb += p
		if r < cumulativeProb {
			break
		}
	}

	cu.collapse(regMask, measured<<start, probs[measured])
	return measured
}

func (cu *CoherentUnit) SetBit(qubit int, value bool) {
	if cu.M(qubit) != value {
		cu.X(qubit)
	}
}

// SetReg measures the register, then flips every bit that differs from value.
func (cu *CoherentUnit) SetReg(start, length int, value uint64) {
	current := cu.MReg(start, length)
	diff := current ^ value

	for i := 0; i < length; i++ {
		if diff&(uint64(1)<<i) != 0 {
			cu.X(start + i)
		}
	}
}

// collapse zeroes every amplitude whose masked bits differ from want and
// rescales the rest by 1/sqrt(keep).
func (cu *CoherentUnit) collapse(mask, want uint64, keep float64) {
	scale := complex(0, 0)
	if keep > 0 {
		scale = complex(1/math.Sqrt(keep), 0)
	}

	for i := range cu.stateVec {
		if uint64(i)&mask != want {
			cu.stateVec[i] = 0
			continue
		}
		cu.stateVec[i] *= scale
	}
}
