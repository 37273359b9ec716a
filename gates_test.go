package qunit

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func soProb(su *SeparatedUnit, q int, want float64) {
	prob, err := su.Prob(q)
	So(err, ShouldBeNil)
	So(prob, ShouldAlmostEqual, want, 1e-9)
}

func TestSelfInverseGates(t *testing.T) {
	Convey("Given a register in a non-trivial state", t, func() {
		su := newTestUnit(3, 0b100)
		So(su.H(0), ShouldBeNil)
		So(su.H(1), ShouldBeNil)
		So(su.CRY(0.4, 0, 2), ShouldBeNil)

		before, err := su.CloneRawState()
		So(err, ShouldBeNil)

		Convey("When X is applied twice", func() {
			So(su.X(2), ShouldBeNil)
			So(su.X(2), ShouldBeNil)

			after, _ := su.CloneRawState()
			soStatesMatch(after, before)
		})

		Convey("When Z is applied twice", func() {
			So(su.Z(0), ShouldBeNil)
			So(su.Z(0), ShouldBeNil)

			after, _ := su.CloneRawState()
			soStatesMatch(after, before)
		})

		Convey("When CCNOT is applied twice", func() {
			So(su.CCNOT(0, 1, 2), ShouldBeNil)
			So(su.CCNOT(0, 1, 2), ShouldBeNil)

			after, _ := su.CloneRawState()
			soStatesMatch(after, before)
			soPartitioned(su)
		})
	})
}

func TestSingleQubitGates(t *testing.T) {
	Convey("Given separate qubits", t, func() {
		su := newTestUnit(2, 0)

		Convey("Then single-qubit gates never merge", func() {
			So(su.H(0), ShouldBeNil)
			So(su.Y(1), ShouldBeNil)
			So(su.RZ(0.3, 0), ShouldBeNil)
			So(su.RT(0.3, 1), ShouldBeNil)
			So(su.SubsystemCount(), ShouldEqual, 2)

			soProb(su, 0, 0.5)
			soProb(su, 1, 1)
		})

		Convey("Then RX by pi flips and RY by pi/2 halves", func() {
			So(su.RX(math.Pi, 0), ShouldBeNil)
			So(su.RY(math.Pi/2, 1), ShouldBeNil)

			soProb(su, 0, 1)
			soProb(su, 1, 0.5)
		})

		Convey("Then a dyad of one half is a rotation by pi", func() {
			So(su.RXDyad(1, 2, 0), ShouldBeNil)
			soProb(su, 0, 1)

			So(su.RYDyad(1, 4, 1), ShouldBeNil)
			soProb(su, 1, 0.5)

			So(su.RZDyad(1, 2, 0), ShouldBeNil)
			So(su.RTDyad(1, 2, 0), ShouldBeNil)
			soProb(su, 0, 1)
		})

		Convey("Then a zero denominator is refused", func() {
			So(su.RZDyad(1, 0, 0), ShouldWrap, ErrZeroDenominator)
			So(su.CRYDyad(1, 0, 0, 1), ShouldWrap, ErrZeroDenominator)
		})

		Convey("Then qubits outside the register are refused", func() {
			So(su.H(2), ShouldWrap, ErrInvalidQubit)
			So(su.RX(1, -1), ShouldWrap, ErrInvalidQubit)
		})
	})
}

func TestXReg(t *testing.T) {
	Convey("Given a register partly entangled", t, func() {
		su := newTestUnit(4, 0b0101)
		So(su.CNOT(1, 3), ShouldBeNil)

		Convey("When flipping qubits 1 to 3", func() {
			So(su.XReg(1, 3), ShouldBeNil)

			Convey("Then every bit in range flips without a merge", func() {
				value, err := su.MReg(0, 4)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, uint64(0b1011))
				So(su.SubsystemCount(), ShouldEqual, 3)
			})
		})

		Convey("When the range leaves the register", func() {
			So(su.XReg(2, 3), ShouldWrap, ErrInvalidRange)
		})
	})
}

func TestControlledGates(t *testing.T) {
	Convey("Given two qubits with the control set", t, func() {
		su := newTestUnit(2, 0b01)

		Convey("CNOT flips the target", func() {
			So(su.CNOT(0, 1), ShouldBeNil)
			soProb(su, 1, 1)
			So(su.SubsystemCount(), ShouldEqual, 1)
		})

		Convey("AntiCNOT leaves it", func() {
			So(su.AntiCNOT(0, 1), ShouldBeNil)
			soProb(su, 1, 0)
		})

		Convey("CY flips the target", func() {
			So(su.CY(0, 1), ShouldBeNil)
			soProb(su, 1, 1)
		})

		Convey("CZ kicks a phase that H turns into a flip", func() {
			So(su.H(1), ShouldBeNil)
			So(su.CZ(0, 1), ShouldBeNil)
			So(su.H(1), ShouldBeNil)
			soProb(su, 1, 1)
		})

		Convey("CRZ by pi does the same as CZ up to phase", func() {
			So(su.H(1), ShouldBeNil)
			So(su.CRZ(math.Pi, 0, 1), ShouldBeNil)
			So(su.H(1), ShouldBeNil)
			soProb(su, 1, 1)
		})

		Convey("CRT by pi leaves populations alone", func() {
			So(su.CRT(math.Pi, 0, 1), ShouldBeNil)
			soProb(su, 1, 0)

			So(su.CRTDyad(1, 2, 0, 1), ShouldBeNil)
			soProb(su, 1, 0)
		})

		Convey("CRY by pi and its dyad flip the target", func() {
			So(su.CRY(math.Pi, 0, 1), ShouldBeNil)
			soProb(su, 1, 1)

			So(su.CRYDyad(1, 2, 0, 1), ShouldBeNil)
			soProb(su, 1, 0)
		})

		Convey("CRZDyad by one half acts like CRZ by pi", func() {
			So(su.H(1), ShouldBeNil)
			So(su.CRZDyad(1, 2, 0, 1), ShouldBeNil)
			So(su.H(1), ShouldBeNil)
			soProb(su, 1, 1)
		})

		Convey("A gate on the same qubit twice is refused", func() {
			So(su.CNOT(1, 1), ShouldWrap, ErrDuplicateQubit)
			So(su.CCNOT(0, 1, 0), ShouldWrap, ErrDuplicateQubit)
			So(su.SubsystemCount(), ShouldEqual, 2)
		})
	})

	Convey("Given three qubits in |000>", t, func() {
		su := newTestUnit(3, 0)

		Convey("AntiCCNOT fires on two clear controls", func() {
			So(su.AntiCCNOT(0, 1, 2), ShouldBeNil)
			soProb(su, 2, 1)
		})

		Convey("CCNOT does not", func() {
			So(su.CCNOT(0, 1, 2), ShouldBeNil)
			soProb(su, 2, 0)
		})
	})
}

func TestSwap(t *testing.T) {
	Convey("Given qubits in separate subsystems", t, func() {
		su := newTestUnit(3, 0b001)

		Convey("When swapping them", func() {
			So(su.Swap(0, 2), ShouldBeNil)

			Convey("Then they trade identities without moving amplitudes", func() {
				value, _ := su.MReg(0, 3)
				So(value, ShouldEqual, uint64(0b100))
				So(su.SubsystemCount(), ShouldEqual, 3)
				So(su.Metrics().Relabels, ShouldEqual, int64(1))
				So(su.Metrics().PhysicalSwaps, ShouldEqual, int64(0))
				soPartitioned(su)
			})
		})
	})

	Convey("Given qubits sharing a subsystem", t, func() {
		su := newTestUnit(3, 0b001)
		So(su.CNOT(2, 0), ShouldBeNil)
		swaps := su.Metrics().PhysicalSwaps

		Convey("When swapping them", func() {
			So(su.Swap(0, 2), ShouldBeNil)

			Convey("Then the engine swaps the amplitudes", func() {
				value, _ := su.MReg(0, 3)
				So(value, ShouldEqual, uint64(0b100))
				So(su.Metrics().PhysicalSwaps, ShouldEqual, swaps+1)
				soPartitioned(su)
			})
		})

		Convey("When swapping a qubit with itself", func() {
			So(su.Swap(1, 1), ShouldBeNil)
			So(su.Metrics().PhysicalSwaps, ShouldEqual, swaps)
		})
	})

	Convey("Given two three-qubit registers", t, func() {
		su := newTestUnit(6, 0b000101)

		Convey("When swapping them", func() {
			So(su.SwapReg(0, 3, 3), ShouldBeNil)

			value, _ := su.MReg(0, 6)
			So(value, ShouldEqual, uint64(0b101000))
		})

		Convey("When a register leaves the range", func() {
			So(su.SwapReg(0, 4, 3), ShouldWrap, ErrInvalidRange)
		})
	})
}
