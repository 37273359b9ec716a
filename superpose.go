package qunit

import "fmt"

const registerWidth8 = 8

/*
SuperposeReg8 loads out with values[in] for every basis value held by the
8-qubit input register, entangling the two. Both registers are read as
numbers, so they are compiled in order and merged into one subsystem, which
the merge leaves sorted; each register is then a contiguous local run and the
engine is handed its local starts. Returns the rounded expectation of out.
*/
func (su *SeparatedUnit) SuperposeReg8(inStart, outStart int, values []byte) (byte, error) {
	h, err := su.entangleRegisters8(values, inStart, outStart)
	if err != nil {
		return 0, err
	}

	sub, err := su.subsystems.get(h)
	if err != nil {
		return 0, err
	}

	in, out := su.localOf(inStart), su.localOf(outStart)
	return sub.engine.SuperposeReg8(in, out, values), nil
}

// AdcSuperposeReg8 adds values[in] and the carry qubit into out, leaving the
// carry out in the carry qubit.
func (su *SeparatedUnit) AdcSuperposeReg8(inStart, outStart, carry int, values []byte) (byte, error) {
	h, err := su.entangleRegisters8(values, inStart, outStart, carry)
	if err != nil {
		return 0, err
	}

	sub, err := su.subsystems.get(h)
	if err != nil {
		return 0, err
	}

	in, out, c := su.localOf(inStart), su.localOf(outStart), su.localOf(carry)
	return sub.engine.AdcSuperposeReg8(in, out, c, values), nil
}

// SbcSuperposeReg8 subtracts values[in] and the borrow (an unset carry) from
// out, leaving the carry set when no borrow occurred.
func (su *SeparatedUnit) SbcSuperposeReg8(inStart, outStart, carry int, values []byte) (byte, error) {
	h, err := su.entangleRegisters8(values, inStart, outStart, carry)
	if err != nil {
		return 0, err
	}

	sub, err := su.subsystems.get(h)
	if err != nil {
		return 0, err
	}

	in, out, c := su.localOf(inStart), su.localOf(outStart), su.localOf(carry)
	return sub.engine.SbcSuperposeReg8(in, out, c, values), nil
}

// entangleRegisters8 validates the operands and merges the input register, the
// output register and the carry qubit, if any.
func (su *SeparatedUnit) entangleRegisters8(values []byte, inStart, outStart int, carry ...int) (Handle, error) {
	if len(values) != 256 {
		return Handle{}, fmt.Errorf("%w: got %d", ErrTableSize, len(values))
	}

	inList, err := su.lookup.orderedBitList(inStart, registerWidth8)
	if err != nil {
		return Handle{}, err
	}

	outList, err := su.lookup.orderedBitList(outStart, registerWidth8)
	if err != nil {
		return Handle{}, err
	}

	if overlaps(inStart, outStart, registerWidth8) {
		return Handle{}, fmt.Errorf("%w: registers at %d and %d overlap", ErrAliasedOutput, inStart, outStart)
	}

	list := append(inList, outList...)

	for _, c := range carry {
		h, local, err := su.lookup.locate(c)
		if err != nil {
			return Handle{}, err
		}

		if within(c, inStart, registerWidth8) || within(c, outStart, registerWidth8) {
			return Handle{}, fmt.Errorf("%w: carry %d inside a register", ErrAliasedOutput, c)
		}

		list = append(list, BitListEntry{Handle: h, Start: local, Length: 1})
	}

	return su.entangleBitList(list)
}

// localOf is only called on qubits that were validated before the merge.
func (su *SeparatedUnit) localOf(q int) int {
	_, local, _ := su.lookup.locate(q)
	return local
}

func overlaps(start1, start2, length int) bool {
	return start1 < start2+length && start2 < start1+length
}

func within(q, start, length int) bool {
	return q >= start && q < start+length
}
