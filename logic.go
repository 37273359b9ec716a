package qunit

import "fmt"

/*
The boolean gates write their result into out, which is reset first. out is
expected to be separable from the rest of the register when reset: resetting
measures it.

An out equal to both inputs is a copy; an out equal to exactly one of two
distinct quantum inputs is refused with ErrAliasedOutput, except for XOR,
which is reversible in place. Every operand is checked before the register is
touched.
*/

// AND sets out to in1 AND in2.
func (su *SeparatedUnit) AND(in1, in2, out int) error {
	if err := su.logicOperands("AND", in1, in2, out, false); err != nil {
		return err
	}

	if in1 == in2 {
		return su.copyBit(in1, out)
	}

	if err := su.SetBit(out, false); err != nil {
		return err
	}

	return su.CCNOT(in1, in2, out)
}

// OR sets out to 1 and clears it again when both inputs are 0.
func (su *SeparatedUnit) OR(in1, in2, out int) error {
	if err := su.logicOperands("OR", in1, in2, out, false); err != nil {
		return err
	}

	if in1 == in2 {
		return su.copyBit(in1, out)
	}

	if err := su.SetBit(out, true); err != nil {
		return err
	}

	return su.AntiCCNOT(in1, in2, out)
}

// XOR sets out to in1 XOR in2. out may be one of the inputs.
func (su *SeparatedUnit) XOR(in1, in2, out int) error {
	if err := su.logicOperands("XOR", in1, in2, out, true); err != nil {
		return err
	}

	switch {
	case in1 == in2:
		return su.SetBit(out, false)
	case out == in1:
		return su.CNOT(in2, out)
	case out == in2:
		return su.CNOT(in1, out)
	}

	if err := su.SetBit(out, false); err != nil {
		return err
	}

	if err := su.CNOT(in1, out); err != nil {
		return err
	}

	return su.CNOT(in2, out)
}

// CLAND sets out to in AND a classical bit.
func (su *SeparatedUnit) CLAND(in int, classical bool, out int) error {
	if err := su.classicalOperands(in, out); err != nil {
		return err
	}

	if !classical {
		return su.SetBit(out, false)
	}

	return su.copyBit(in, out)
}

// CLOR sets out to in OR a classical bit.
func (su *SeparatedUnit) CLOR(in int, classical bool, out int) error {
	if err := su.classicalOperands(in, out); err != nil {
		return err
	}

	if classical {
		return su.SetBit(out, true)
	}

	return su.copyBit(in, out)
}

// CLXOR sets out to in XOR a classical bit. With in == out it flips in place.
func (su *SeparatedUnit) CLXOR(in int, classical bool, out int) error {
	if err := su.copyBit(in, out); err != nil {
		return err
	}

	if classical {
		return su.X(out)
	}

	return nil
}

func (su *SeparatedUnit) logicOperands(name string, in1, in2, out int, inPlace bool) error {
	for _, q := range []int{in1, in2, out} {
		if _, _, err := su.lookup.locate(q); err != nil {
			return err
		}
	}

	if !inPlace && in1 != in2 && (out == in1 || out == in2) {
		return fmt.Errorf("%w: %s(%d, %d) into %d", ErrAliasedOutput, name, in1, in2, out)
	}

	return nil
}

func (su *SeparatedUnit) classicalOperands(in, out int) error {
	if _, _, err := su.lookup.locate(in); err != nil {
		return err
	}

	_, _, err := su.lookup.locate(out)
	return err
}

// copyBit entangles out with in so that out reads the same as in.
func (su *SeparatedUnit) copyBit(in, out int) error {
	if err := su.classicalOperands(in, out); err != nil {
		return err
	}

	if in == out {
		return nil
	}

	if err := su.SetBit(out, false); err != nil {
		return err
	}

	return su.CNOT(in, out)
}

// ANDReg applies AND bit by bit across three registers of length qubits.
func (su *SeparatedUnit) ANDReg(in1, in2, out, length int) error {
	return su.logicReg("AND", in1, in2, out, length, false, su.AND)
}

// ORReg applies OR bit by bit across three registers of length qubits.
func (su *SeparatedUnit) ORReg(in1, in2, out, length int) error {
	return su.logicReg("OR", in1, in2, out, length, false, su.OR)
}

// XORReg applies XOR bit by bit; out may coincide with either input register.
func (su *SeparatedUnit) XORReg(in1, in2, out, length int) error {
	return su.logicReg("XOR", in1, in2, out, length, true, su.XOR)
}

// CLANDReg ANDs the register at in with the low length bits of classical.
func (su *SeparatedUnit) CLANDReg(in int, classical uint64, out, length int) error {
	return su.classicalReg(in, classical, out, length, func(c bool) bool { return c }, su.CLAND)
}

// CLORReg ORs the register at in with the low length bits of classical.
func (su *SeparatedUnit) CLORReg(in int, classical uint64, out, length int) error {
	return su.classicalReg(in, classical, out, length, func(c bool) bool { return !c }, su.CLOR)
}

// CLXORReg XORs the register at in with the low length bits of classical.
func (su *SeparatedUnit) CLXORReg(in int, classical uint64, out, length int) error {
	return su.classicalReg(in, classical, out, length, func(bool) bool { return true }, su.CLXOR)
}

/*
logicReg applies gate bit by bit; every output bit depends only on the input
bits at the same offset. All operands are validated and every bit's subsystems
are merged up front, so a bad operand or a refused merge leaves the register
untouched.
*/
func (su *SeparatedUnit) logicReg(
	name string, in1, in2, out, length int, inPlace bool, gate func(a, b, o int) error,
) error {
	starts := []int{in1, in2, out}

	for _, start := range starts {
		if err := su.lookup.checkRange(start, length); err != nil {
			return err
		}
	}

	for i := 0; i < length; i++ {
		if err := su.logicOperands(name, in1+i, in2+i, out+i, inPlace); err != nil {
			return err
		}
	}

	// XOR of a register with itself only clears out.
	coupled := func(int) bool { return !(inPlace && in1 == in2) }

	if err := su.entangleParallel(starts, length, coupled); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		if err := gate(in1+i, in2+i, out+i); err != nil {
			return err
		}
	}

	return nil
}

/*
classicalReg is logicReg with the second operand taken from the bits of
classical. couples reports whether a classical bit makes the gate read its
quantum input; bits that only set or clear out merge nothing.
*/
func (su *SeparatedUnit) classicalReg(
	in int, classical uint64, out, length int, couples func(bool) bool, gate func(a int, c bool, o int) error,
) error {
	if length > maxRegisterBits {
		return fmt.Errorf("%w: register length %d", ErrInvalidRange, length)
	}

	starts := []int{in, out}

	for _, start := range starts {
		if err := su.lookup.checkRange(start, length); err != nil {
			return err
		}
	}

	bit := func(i int) bool { return classical&(uint64(1)<<i) != 0 }

	coupled := func(i int) bool { return in != out && couples(bit(i)) }

	if err := su.entangleParallel(starts, length, coupled); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		if err := gate(in+i, bit(i), out+i); err != nil {
			return err
		}
	}

	return nil
}
