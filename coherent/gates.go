package coherent

import (
	"math"
	"math/cmplx"
)

// matrix2 is a row-major 2x2 operator: [m0 m1; m2 m3].
type matrix2 [4]complex128

var (
	sqrt1_2 = complex(1/math.Sqrt2, 0)

	// H = 1/√2 * [1  1]
	//            [1 -1]
	pauliH = matrix2{sqrt1_2, sqrt1_2, sqrt1_2, -sqrt1_2}
	pauliX = matrix2{0, 1, 1, 0}
	pauliY = matrix2{0, -1i, 1i, 0}
	pauliZ = matrix2{1, 0, 0, -1}
)

func phaseMatrix(radians float64) matrix2 {
	return matrix2{1, 0, 0, cmplx.Exp(complex(0, radians/2))}
}

func rxMatrix(radians float64) matrix2 {
	c := complex(math.Cos(radians/2), 0)
	s := complex(0, -math.Sin(radians/2))
	return matrix2{c, s, s, c}
}

func ryMatrix(radians float64) matrix2 {
	c := complex(math.Cos(radians/2), 0)
	s := complex(math.Sin(radians/2), 0)
	return matrix2{c, -s, s, c}
}

func rzMatrix(radians float64) matrix2 {
	phase := cmplx.Exp(complex(0, radians/2))
	return matrix2{cmplx.Conj(phase), 0, 0, phase}
}

/*
apply2x2 applies m to the target qubit on every basis pair whose control bits,
selected by controlMask, equal controlValue. Pairs are updated in place.
*/
func (cu *CoherentUnit) apply2x2(target int, m matrix2, controlMask, controlValue uint64) {
	bit := uint64(1) << target

	for i := uint64(0); i < cu.maxQPower; i++ {
		if i&bit != 0 || i&controlMask != controlValue {
			continue
		}

		j := i | bit
		a0, a1 := cu.stateVec[i], cu.stateVec[j]
		cu.stateVec[i] = m[0]*a0 + m[1]*a1
		cu.stateVec[j] = m[2]*a0 + m[3]*a1
	}
}

func (cu *CoherentUnit) H(qubit int) { cu.apply2x2(qubit, pauliH, 0, 0) }
func (cu *CoherentUnit) X(qubit int) { cu.apply2x2(qubit, pauliX, 0, 0) }
func (cu *CoherentUnit) Y(qubit int) { cu.apply2x2(qubit, pauliY, 0, 0) }
func (cu *CoherentUnit) Z(qubit int) { cu.apply2x2(qubit, pauliZ, 0, 0) }

// RT shifts the phase of |1> by e^(i*radians/2).
func (cu *CoherentUnit) RT(radians float64, qubit int) {
	cu.apply2x2(qubit, phaseMatrix(radians), 0, 0)
}

func (cu *CoherentUnit) RX(radians float64, qubit int) {
	cu.apply2x2(qubit, rxMatrix(radians), 0, 0)
}

func (cu *CoherentUnit) RY(radians float64, qubit int) {
	cu.apply2x2(qubit, ryMatrix(radians), 0, 0)
}

func (cu *CoherentUnit) RZ(radians float64, qubit int) {
	cu.apply2x2(qubit, rzMatrix(radians), 0, 0)
}

func (cu *CoherentUnit) CNOT(control, target int) {
	mask := uint64(1) << control
	cu.apply2x2(target, pauliX, mask, mask)
}

// AntiCNOT flips the target when the control is |0>.
func (cu *CoherentUnit) AntiCNOT(control, target int) {
	cu.apply2x2(target, pauliX, uint64(1)<<control, 0)
}

func (cu *CoherentUnit) CY(control, target int) {
	mask := uint64(1) << control
	cu.apply2x2(target, pauliY, mask, mask)
}

func (cu *CoherentUnit) CZ(control, target int) {
	mask := uint64(1) << control
	cu.apply2x2(target, pauliZ, mask, mask)
}

func (cu *CoherentUnit) CRT(radians float64, control, target int) {
	mask := uint64(1) << control
	cu.apply2x2(target, phaseMatrix(radians), mask, mask)
}

func (cu *CoherentUnit) CRY(radians float64, control, target int) {
	mask := uint64(1) << control
	cu.apply2x2(target, ryMatrix(radians), mask, mask)
}

func (cu *CoherentUnit) CRZ(radians float64, control, target int) {
	mask := uint64(1) << control
	cu.apply2x2(target, rzMatrix(radians), mask, mask)
}

func (cu *CoherentUnit) CCNOT(control1, control2, target int) {
	mask := uint64(1)<<control1 | uint64(1)<<control2
	cu.apply2x2(target, pauliX, mask, mask)
}

// AntiCCNOT flips the target when both controls are |0>.
func (cu *CoherentUnit) AntiCCNOT(control1, control2, target int) {
	mask := uint64(1)<<control1 | uint64(1)<<control2
	cu.apply2x2(target, pauliX, mask, 0)
}
