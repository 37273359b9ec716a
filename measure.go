package qunit

import "fmt"

// maxRegisterBits is the widest register MReg and SetReg can carry in a uint64.
const maxRegisterBits = 64

// Prob returns the probability that measuring q gives 1.
func (su *SeparatedUnit) Prob(q int) (float64, error) {
	engine, local, err := su.lookup.locateEngine(q)
	if err != nil {
		return 0, err
	}

	return engine.Prob(local), nil
}

// M measures q and collapses its subsystem onto the result.
func (su *SeparatedUnit) M(q int) (bool, error) {
	engine, local, err := su.lookup.locateEngine(q)
	if err != nil {
		return false, err
	}

	return engine.M(local), nil
}

// SetBit measures q and flips it if needed so that it reads value.
func (su *SeparatedUnit) SetBit(q int, value bool) error {
	engine, local, err := su.lookup.locateEngine(q)
	if err != nil {
		return err
	}

	engine.SetBit(local, value)
	return nil
}

/*
MReg measures [start, start+length) as an unsigned integer, qubit start being
the least significant bit. Different subsystems are independent, so each run
of the ordered bit list is measured in its own engine and shifted into place;
nothing is merged.
*/
func (su *SeparatedUnit) MReg(start, length int) (uint64, error) {
	list, err := su.registerList(start, length)
	if err != nil {
		return 0, err
	}

	var (
		value uint64
		shift int
	)

	for _, entry := range list {
		sub, err := su.subsystems.get(entry.Handle)
		if err != nil {
			return 0, err
		}

		value |= sub.engine.MReg(entry.Start, entry.Length) << shift
		shift += entry.Length
	}

	return value, nil
}

// SetReg sets [start, start+length) to value, run by run like MReg.
func (su *SeparatedUnit) SetReg(start, length int, value uint64) error {
	list, err := su.registerList(start, length)
	if err != nil {
		return err
	}

	shift := 0
	for _, entry := range list {
		sub, err := su.subsystems.get(entry.Handle)
		if err != nil {
			return err
		}

		mask := uint64(1)<<entry.Length - 1
		sub.engine.SetReg(entry.Start, entry.Length, (value>>shift)&mask)
		shift += entry.Length
	}

	return nil
}

func (su *SeparatedUnit) registerList(start, length int) ([]BitListEntry, error) {
	if length < 1 || length > maxRegisterBits {
		return nil, fmt.Errorf("%w: register length %d", ErrInvalidRange, length)
	}

	return su.lookup.orderedBitList(start, length)
}
