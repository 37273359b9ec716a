package qunit

import (
	"testing"

	"github.com/theapemachine/qunit/coherent"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestEngine(qubits int, perm uint64) Engine {
	engine, err := coherent.Factory(qubits, perm, nil)
	So(err, ShouldBeNil)
	return engine
}

func TestLookupTable(t *testing.T) {
	Convey("Given qubits 0 and 2 sharing a subsystem and qubit 1 alone", t, func() {
		subsystems := newArena()
		lt := newLookupTable(subsystems)

		h0 := subsystems.alloc(newTestEngine(2, 0), []int{0, 2})
		So(lt.adopt(h0), ShouldBeNil)
		h1 := subsystems.alloc(newTestEngine(1, 0), []int{1})
		So(lt.adopt(h1), ShouldBeNil)

		Convey("Then every qubit is located exactly once", func() {
			So(lt.qubitCount(), ShouldEqual, 3)
			So(lt.checkPartition(), ShouldBeNil)

			h, local, err := lt.locate(2)
			So(err, ShouldBeNil)
			So(h, ShouldEqual, h0)
			So(local, ShouldEqual, 1)
		})

		Convey("When locating outside the register", func() {
			_, _, err := lt.locate(3)
			So(err, ShouldWrap, ErrInvalidQubit)

			_, _, err = lt.locate(-1)
			So(err, ShouldWrap, ErrInvalidQubit)
		})

		Convey("When swapping two local positions", func() {
			So(lt.swapLocal(h0, 0, 1), ShouldBeNil)

			Convey("Then both directions move together", func() {
				_, local, _ := lt.locate(0)
				So(local, ShouldEqual, 1)
				So(subsystems.slots[h0.slot].residents, ShouldResemble, []int{2, 0})
				So(lt.checkPartition(), ShouldBeNil)
			})
		})

		Convey("When relabelling qubits of different subsystems", func() {
			So(lt.relabel(0, 1), ShouldBeNil)

			Convey("Then they trade placements", func() {
				h, local, _ := lt.locate(0)
				So(h, ShouldEqual, h1)
				So(local, ShouldEqual, 0)

				h, local, _ = lt.locate(1)
				So(h, ShouldEqual, h0)
				So(local, ShouldEqual, 0)

				So(lt.checkPartition(), ShouldBeNil)
			})
		})

		Convey("When a subsystem is released", func() {
			So(subsystems.release(h1), ShouldBeNil)

			Convey("Then its handle is stale", func() {
				_, err := subsystems.get(h1)
				So(err, ShouldWrap, ErrStaleHandle)
				So(subsystems.release(h1), ShouldWrap, ErrStaleHandle)
			})

			Convey("Then the table no longer partitions the register", func() {
				So(lt.checkPartition(), ShouldWrap, ErrPartitionBroken)
			})

			Convey("Then the slot is reused under a new generation", func() {
				h := subsystems.alloc(newTestEngine(1, 0), []int{1})
				So(h.slot, ShouldEqual, h1.slot)
				So(h.gen, ShouldEqual, h1.gen+1)
				So(lt.adopt(h), ShouldBeNil)
				So(lt.checkPartition(), ShouldBeNil)
			})
		})

		Convey("When two qubits claim the same global", func() {
			subsystems.slots[h1.slot].residents[0] = 0

			So(lt.checkPartition(), ShouldWrap, ErrPartitionBroken)
		})
	})

	Convey("Given three single-qubit subsystems", t, func() {
		subsystems := newArena()
		lt := newLookupTable(subsystems)

		handles := make([]Handle, 3)
		for q := range handles {
			handles[q] = subsystems.alloc(newTestEngine(1, 0), []int{q})
			So(lt.adopt(handles[q]), ShouldBeNil)
		}

		Convey("When the middle qubit is removed", func() {
			So(subsystems.release(handles[1]), ShouldBeNil)
			lt.removeRange(1, 1)

			Convey("Then the qubit above it is renumbered down", func() {
				So(lt.qubitCount(), ShouldEqual, 2)
				So(subsystems.slots[handles[2].slot].residents, ShouldResemble, []int{1})

				h, _, err := lt.locate(1)
				So(err, ShouldBeNil)
				So(h, ShouldEqual, handles[2])
				So(lt.checkPartition(), ShouldBeNil)
			})
		})
	})
}
