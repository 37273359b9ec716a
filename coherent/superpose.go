package coherent

import "math"

/*
SuperposeReg8 loads values[input] into the 8-bit output register for every
basis state in superposition, so the output becomes entangled with the input
index. The output register is reset to zero first. It returns the expectation
value of the output register, rounded to the nearest byte.
*/
func (cu *CoherentUnit) SuperposeReg8(inputStart, outputStart int, values []byte) byte {
	cu.SetReg(outputStart, 8, 0)

	inputMask := uint64(0xFF) << inputStart
	nState := make([]complex128, cu.maxQPower)

	for i, amp := range cu.stateVec {
		if amp == 0 {
			continue
		}
		index := (uint64(i) & inputMask) >> inputStart
		output := uint64(values[index]) << outputStart
		nState[uint64(i)|output] = amp
	}

	cu.stateVec = nState
	return cu.expectation(outputStart)
}

/*
AdcSuperposeReg8 adds values[input] plus the carry into the output register.
The carry bit is measured and cleared first; a sum above 255 wraps and sets it
again, as an 8-bit add-with-carry does.
*/
func (cu *CoherentUnit) AdcSuperposeReg8(inputStart, outputStart, carryIndex int, values []byte) byte {
	carryIn := 0
	if cu.M(carryIndex) {
		carryIn = 1
		cu.X(carryIndex)
	}

	return cu.carrySuperpose(inputStart, outputStart, carryIndex, values, func(output, value int) (int, bool) {
		sum := output + value + carryIn
		return sum & 0xFF, sum > 0xFF
	})
}

/*
SbcSuperposeReg8 subtracts values[input] and the inverted carry (the borrow)
from the output register. The carry comes out set when no borrow occurred.
*/
func (cu *CoherentUnit) SbcSuperposeReg8(inputStart, outputStart, carryIndex int, values []byte) byte {
	borrow := 1
	if cu.M(carryIndex) {
		borrow = 0
		cu.X(carryIndex)
	}

	return cu.carrySuperpose(inputStart, outputStart, carryIndex, values, func(output, value int) (int, bool) {
		diff := output - value - borrow
		if diff < 0 {
			return diff + 0x100, false
		}
		return diff, true
	})
}

// carrySuperpose permutes amplitudes by op, which maps (output, values[input])
// to the new output and the carry-out. The carry bit is clear on entry.
func (cu *CoherentUnit) carrySuperpose(
	inputStart, outputStart, carryIndex int,
	values []byte,
	op func(output, value int) (int, bool),
) byte {
	inputMask := uint64(0xFF) << inputStart
	outputMask := uint64(0xFF) << outputStart
	carryBit := uint64(1) << carryIndex

	nState := make([]complex128, cu.maxQPower)

	for i, amp := range cu.stateVec {
		if amp == 0 {
			continue
		}

		index := (uint64(i) & inputMask) >> inputStart
		output := int((uint64(i) & outputMask) >> outputStart)

		result, carry := op(output, int(values[index]))

		next := (uint64(i) &^ outputMask) | (uint64(result) << outputStart)
		if carry {
			next |= carryBit
		}
		nState[next] = amp
	}

	cu.stateVec = nState
	return cu.expectation(outputStart)
}

// expectation is the probability-weighted mean of the 8-bit register at start.
func (cu *CoherentUnit) expectation(start int) byte {
	mask := uint64(0xFF) << start

	var average float64
	for i, amp := range cu.stateVec {
		average += norm(amp) * float64((uint64(i)&mask)>>start)
	}

	return byte(math.Min(math.Floor(average+0.5), 0xFF))
}
