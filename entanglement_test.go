package qunit

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEntangleIndices(t *testing.T) {
	Convey("Given four separate qubits with qubit 1 set", t, func() {
		su := newTestUnit(4, 0b0010)

		h3, _, _ := su.SubsystemOf(3)
		h1, _, _ := su.SubsystemOf(1)

		Convey("When entangling 3 with 1", func() {
			h, err := su.entangleIndices(3, 1)
			So(err, ShouldBeNil)

			Convey("Then the first referenced subsystem absorbs the other", func() {
				So(h, ShouldEqual, h3)
				So(su.SubsystemCount(), ShouldEqual, 3)

				_, err := su.subsystems.get(h1)
				So(err, ShouldWrap, ErrStaleHandle)
			})

			Convey("Then the merged subsystem is in global order", func() {
				So(su.subsystems.slots[h.slot].residents, ShouldResemble, []int{1, 3})

				_, local, _ := su.SubsystemOf(1)
				So(local, ShouldEqual, 0)

				prob, _ := su.Prob(1)
				So(prob, ShouldAlmostEqual, 1, 1e-12)
				So(su.CheckPartition(), ShouldBeNil)
			})

			Convey("Then the merge is counted", func() {
				So(su.Metrics().Merges, ShouldEqual, int64(1))
				So(su.Metrics().PeakSubsystemQubits, ShouldEqual, 2)
			})
		})

		Convey("When entangling qubits already together", func() {
			_, err := su.entangleIndices(0, 2)
			So(err, ShouldBeNil)
			merges := su.Metrics().Merges

			_, err = su.entangleIndices(2, 0)
			So(err, ShouldBeNil)

			Convey("Then nothing more is merged", func() {
				So(su.Metrics().Merges, ShouldEqual, merges)
				So(su.SubsystemCount(), ShouldEqual, 3)
			})
		})

		Convey("When a qubit is out of range", func() {
			_, err := su.entangleIndices(0, 4)
			So(err, ShouldWrap, ErrInvalidQubit)
			So(su.SubsystemCount(), ShouldEqual, 4)
		})
	})
}

func TestEntangleBitList(t *testing.T) {
	Convey("Given a register split three ways", t, func() {
		su := newTestUnit(5, 0b10101)
		So(su.CNOT(4, 1), ShouldBeNil)
		So(su.CNOT(3, 0), ShouldBeNil)

		Convey("When entangling the whole ordered range", func() {
			list, err := su.lookup.orderedBitList(0, 5)
			So(err, ShouldBeNil)

			_, err = su.entangleBitList(list)
			So(err, ShouldBeNil)

			Convey("Then one subsystem holds everything in order", func() {
				So(su.SubsystemCount(), ShouldEqual, 1)
				So(su.Partition(), ShouldResemble, [][]int{{0, 1, 2, 3, 4}})
				So(su.CheckPartition(), ShouldBeNil)

				value, err := su.MReg(0, 5)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, uint64(0b10111))
			})
		})

		Convey("When the list is empty", func() {
			_, err := su.entangleBitList(nil)
			So(err, ShouldWrap, ErrInvalidRange)
		})
	})
}

func TestMergeGovernorRefusal(t *testing.T) {
	Convey("Given a unit capped at two qubits per subsystem", t, func() {
		su := newTestUnit(4, 0, WithMaxSubsystemQubits(2))
		So(su.CNOT(0, 1), ShouldBeNil)

		before := su.Partition()

		Convey("When a gate would build a three-qubit subsystem", func() {
			err := su.CNOT(1, 2)

			Convey("Then it is refused before anything changes", func() {
				So(err, ShouldWrap, ErrCapacityExceeded)
				So(su.Partition(), ShouldResemble, before)
				So(su.Metrics().Refusals, ShouldEqual, int64(1))
				So(su.CheckPartition(), ShouldBeNil)
			})
		})

		Convey("When a gate stays inside the cap", func() {
			So(su.CNOT(2, 3), ShouldBeNil)
			So(su.SubsystemCount(), ShouldEqual, 2)
		})
	})
}

func TestMergeOrderIndependence(t *testing.T) {
	Convey("Given two identical prepared registers", t, func() {
		prepare := func() *SeparatedUnit {
			su := newTestUnit(3, 0)
			So(su.H(0), ShouldBeNil)
			So(su.RY(0.7, 1), ShouldBeNil)
			So(su.X(2), ShouldBeNil)
			return su
		}

		left, right := prepare(), prepare()

		Convey("When they are entangled through different intermediate merges", func() {
			_, err := left.entangleIndices(0, 1)
			So(err, ShouldBeNil)
			_, err = left.entangleIndices(0, 1, 2)
			So(err, ShouldBeNil)

			_, err = right.entangleIndices(1, 2)
			So(err, ShouldBeNil)
			_, err = right.entangleIndices(0, 1, 2)
			So(err, ShouldBeNil)

			for _, su := range []*SeparatedUnit{left, right} {
				So(su.CNOT(0, 1), ShouldBeNil)
				So(su.CCNOT(0, 1, 2), ShouldBeNil)
				So(su.H(2), ShouldBeNil)
			}

			Convey("Then the resulting states agree", func() {
				leftState, err := left.CloneRawState()
				So(err, ShouldBeNil)
				rightState, err := right.CloneRawState()
				So(err, ShouldBeNil)

				So(len(leftState), ShouldEqual, 8)
				soStatesMatch(leftState, rightState)
			})
		})
	})
}
