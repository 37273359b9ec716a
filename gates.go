package qunit

import (
	"fmt"
	"math"
)

// single applies a one-qubit gate in place; no merge is ever needed.
func (su *SeparatedUnit) single(q int, apply func(engine Engine, local int)) error {
	engine, local, err := su.lookup.locateEngine(q)
	if err != nil {
		return err
	}

	apply(engine, local)
	return nil
}

/*
entangled merges the subsystems of qubits into one and applies a gate to it
with the qubits' local positions, in the order given.
*/
func (su *SeparatedUnit) entangled(apply func(engine Engine, locals []int), qubits ...int) error {
	for i, q := range qubits {
		for _, p := range qubits[:i] {
			if p == q {
				return fmt.Errorf("%w: %d", ErrDuplicateQubit, q)
			}
		}
	}

	h, err := su.entangleIndices(qubits...)
	if err != nil {
		return err
	}

	sub, err := su.subsystems.get(h)
	if err != nil {
		return err
	}

	locals := make([]int, len(qubits))
	for i, q := range qubits {
		if _, locals[i], err = su.lookup.locate(q); err != nil {
			return err
		}
	}

	apply(sub.engine, locals)
	return nil
}

// dyadAngle converts the rational angle num/den into radians, as -2π·num/den.
func dyadAngle(numerator, denominator int) (float64, error) {
	if denominator == 0 {
		return 0, ErrZeroDenominator
	}
	return -2 * math.Pi * float64(numerator) / float64(denominator), nil
}

// H applies a Hadamard to q.
func (su *SeparatedUnit) H(q int) error {
	return su.single(q, func(e Engine, l int) { e.H(l) })
}

// X flips q.
func (su *SeparatedUnit) X(q int) error {
	return su.single(q, func(e Engine, l int) { e.X(l) })
}

// Y applies Pauli Y to q.
func (su *SeparatedUnit) Y(q int) error {
	return su.single(q, func(e Engine, l int) { e.Y(l) })
}

// Z flips the phase of |1> on q.
func (su *SeparatedUnit) Z(q int) error {
	return su.single(q, func(e Engine, l int) { e.Z(l) })
}

/*
XReg flips every qubit of [start, start+length). Each bit is independent, so
the parallel bit list is used and every subsystem is touched once, in place.
*/
func (su *SeparatedUnit) XReg(start, length int) error {
	list, err := su.lookup.parallelBitList(start, length)
	if err != nil {
		return err
	}

	for _, entry := range list {
		sub, err := su.subsystems.get(entry.Handle)
		if err != nil {
			return err
		}

		for local := entry.Start; local < entry.end(); local++ {
			sub.engine.X(local)
		}
	}

	return nil
}

// RT applies a phase of e^(iθ/2) to |1>.
func (su *SeparatedUnit) RT(radians float64, q int) error {
	return su.single(q, func(e Engine, l int) { e.RT(radians, l) })
}

// RX rotates q about the X axis by radians.
func (su *SeparatedUnit) RX(radians float64, q int) error {
	return su.single(q, func(e Engine, l int) { e.RX(radians, l) })
}

// RY rotates q about the Y axis by radians.
func (su *SeparatedUnit) RY(radians float64, q int) error {
	return su.single(q, func(e Engine, l int) { e.RY(radians, l) })
}

// RZ rotates q about the Z axis by radians.
func (su *SeparatedUnit) RZ(radians float64, q int) error {
	return su.single(q, func(e Engine, l int) { e.RZ(radians, l) })
}

/*
RTDyad is RT with the angle given as the fraction numerator/denominator of a
full turn, taken as -2π·numerator/denominator. The other Dyad gates follow the
same convention. A zero denominator returns ErrZeroDenominator.
*/
func (su *SeparatedUnit) RTDyad(numerator, denominator, q int) error {
	radians, err := dyadAngle(numerator, denominator)
	if err != nil {
		return err
	}
	return su.RT(radians, q)
}

func (su *SeparatedUnit) RXDyad(numerator, denominator, q int) error {
	radians, err := dyadAngle(numerator, denominator)
	if err != nil {
		return err
	}
	return su.RX(radians, q)
}

func (su *SeparatedUnit) RYDyad(numerator, denominator, q int) error {
	radians, err := dyadAngle(numerator, denominator)
	if err != nil {
		return err
	}
	return su.RY(radians, q)
}

func (su *SeparatedUnit) RZDyad(numerator, denominator, q int) error {
	radians, err := dyadAngle(numerator, denominator)
	if err != nil {
		return err
	}
	return su.RZ(radians, q)
}

/*
CNOT flips target when control is |1>. Like every multi-qubit gate, it first
merges the subsystems holding its qubits, and it refuses a repeated qubit with
ErrDuplicateQubit.
*/
func (su *SeparatedUnit) CNOT(control, target int) error {
	return su.entangled(func(e Engine, l []int) { e.CNOT(l[0], l[1]) }, control, target)
}

// AntiCNOT flips target when control is |0>.
func (su *SeparatedUnit) AntiCNOT(control, target int) error {
	return su.entangled(func(e Engine, l []int) { e.AntiCNOT(l[0], l[1]) }, control, target)
}

// CY applies Y to target when control is |1>.
func (su *SeparatedUnit) CY(control, target int) error {
	return su.entangled(func(e Engine, l []int) { e.CY(l[0], l[1]) }, control, target)
}

// CZ flips the phase when both qubits are |1>.
func (su *SeparatedUnit) CZ(control, target int) error {
	return su.entangled(func(e Engine, l []int) { e.CZ(l[0], l[1]) }, control, target)
}

// CRT applies RT to target when control is |1>.
func (su *SeparatedUnit) CRT(radians float64, control, target int) error {
	return su.entangled(func(e Engine, l []int) { e.CRT(radians, l[0], l[1]) }, control, target)
}

// CRY applies RY to target when control is |1>.
func (su *SeparatedUnit) CRY(radians float64, control, target int) error {
	return su.entangled(func(e Engine, l []int) { e.CRY(radians, l[0], l[1]) }, control, target)
}

// CRZ applies RZ to target when control is |1>.
func (su *SeparatedUnit) CRZ(radians float64, control, target int) error {
	return su.entangled(func(e Engine, l []int) { e.CRZ(radians, l[0], l[1]) }, control, target)
}

func (su *SeparatedUnit) CRTDyad(numerator, denominator, control, target int) error {
	radians, err := dyadAngle(numerator, denominator)
	if err != nil {
		return err
	}
	return su.CRT(radians, control, target)
}

func (su *SeparatedUnit) CRYDyad(numerator, denominator, control, target int) error {
	radians, err := dyadAngle(numerator, denominator)
	if err != nil {
		return err
	}
	return su.CRY(radians, control, target)
}

func (su *SeparatedUnit) CRZDyad(numerator, denominator, control, target int) error {
	radians, err := dyadAngle(numerator, denominator)
	if err != nil {
		return err
	}
	return su.CRZ(radians, control, target)
}

// CCNOT flips target when both controls are |1>.
func (su *SeparatedUnit) CCNOT(control1, control2, target int) error {
	return su.entangled(func(e Engine, l []int) { e.CCNOT(l[0], l[1], l[2]) }, control1, control2, target)
}

// AntiCCNOT flips target when both controls are |0>.
func (su *SeparatedUnit) AntiCCNOT(control1, control2, target int) error {
	return su.entangled(func(e Engine, l []int) { e.AntiCCNOT(l[0], l[1], l[2]) }, control1, control2, target)
}

/*
Swap exchanges two qubits. Inside one subsystem the amplitudes are permuted;
across subsystems the two qubits just trade index entries, which is exact
because the subsystems are independent.
*/
func (su *SeparatedUnit) Swap(q1, q2 int) error {
	h1, l1, err := su.lookup.locate(q1)
	if err != nil {
		return err
	}

	h2, l2, err := su.lookup.locate(q2)
	if err != nil {
		return err
	}

	if q1 == q2 {
		return nil
	}

	if h1 != h2 {
		su.metrics.recordRelabel()
		return su.lookup.relabel(q1, q2)
	}

	sub, err := su.subsystems.get(h1)
	if err != nil {
		return err
	}

	sub.engine.Swap(l1, l2)
	su.metrics.recordSwap()

	return nil
}

// SwapReg swaps [start1, start1+length) with [start2, start2+length) bit by bit.
func (su *SeparatedUnit) SwapReg(start1, start2, length int) error {
	if err := su.lookup.checkRange(start1, length); err != nil {
		return err
	}

	if err := su.lookup.checkRange(start2, length); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		if err := su.Swap(start1+i, start2+i); err != nil {
			return err
		}
	}

	return nil
}
