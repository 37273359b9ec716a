package qunit

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func doubledTable() []byte {
	values := make([]byte, 256)
	for i := range values {
		values[i] = byte(i * 2)
	}
	return values
}

func identityTable() []byte {
	values := make([]byte, 256)
	for i := range values {
		values[i] = byte(i)
	}
	return values
}

func TestSuperposeReg8(t *testing.T) {
	Convey("Given an input register holding 3", t, func() {
		su := newTestUnit(16, 3)

		Convey("When loading the doubled table", func() {
			expectation, err := su.SuperposeReg8(0, 8, doubledTable())
			So(err, ShouldBeNil)

			Convey("Then the output holds 6", func() {
				So(expectation, ShouldEqual, byte(6))

				value, err := su.MReg(8, 8)
				So(err, ShouldBeNil)
				So(value, ShouldEqual, uint64(6))
			})

			Convey("Then both registers live in one ordered subsystem", func() {
				So(su.SubsystemCount(), ShouldEqual, 1)
				soPartitioned(su)
			})
		})

		Convey("When the output sits below the input", func() {
			su := newTestUnit(16, 3<<8)

			expectation, err := su.SuperposeReg8(8, 0, doubledTable())
			So(err, ShouldBeNil)
			So(expectation, ShouldEqual, byte(6))
		})

		Convey("When the input is in superposition", func() {
			So(su.SetReg(0, 8, 0), ShouldBeNil)
			So(su.H(0), ShouldBeNil)

			expectation, err := su.SuperposeReg8(0, 8, doubledTable())
			So(err, ShouldBeNil)

			Convey("Then the output is entangled with it", func() {
				So(expectation, ShouldEqual, byte(1))

				in, _ := su.MReg(0, 8)
				out, _ := su.MReg(8, 8)
				So(out, ShouldEqual, in*2)
			})
		})

		Convey("When the table is the wrong size", func() {
			_, err := su.SuperposeReg8(0, 8, make([]byte, 10))
			So(err, ShouldWrap, ErrTableSize)
		})

		Convey("When the registers overlap", func() {
			_, err := su.SuperposeReg8(0, 4, doubledTable())
			So(err, ShouldWrap, ErrAliasedOutput)
			So(su.SubsystemCount(), ShouldEqual, 16)
		})

		Convey("When a register leaves the range", func() {
			_, err := su.SuperposeReg8(0, 9, doubledTable())
			So(err, ShouldWrap, ErrInvalidRange)
		})
	})
}

func TestCarrySuperposeReg8(t *testing.T) {
	Convey("Given input 5, output 250 and the carry set", t, func() {
		su := newTestUnit(17, 5|250<<8|1<<16)

		Convey("When adding with carry", func() {
			expectation, err := su.AdcSuperposeReg8(0, 8, 16, identityTable())
			So(err, ShouldBeNil)

			Convey("Then the sum wraps to 0 and carries out", func() {
				So(expectation, ShouldEqual, byte(0))

				carry, _ := su.M(16)
				So(carry, ShouldBeTrue)
			})
		})

		Convey("When the carry sits inside a register", func() {
			_, err := su.AdcSuperposeReg8(0, 8, 12, identityTable())
			So(err, ShouldWrap, ErrAliasedOutput)
		})
	})

	Convey("Given input 5, output 3 and the carry set", t, func() {
		su := newTestUnit(17, 5|3<<8|1<<16)

		Convey("When subtracting with borrow", func() {
			expectation, err := su.SbcSuperposeReg8(0, 8, 16, identityTable())
			So(err, ShouldBeNil)

			Convey("Then the difference wraps and the carry clears", func() {
				So(expectation, ShouldEqual, byte(254))

				carry, _ := su.M(16)
				So(carry, ShouldBeFalse)
			})
		})

		Convey("When the carry is outside the register", func() {
			_, err := su.SbcSuperposeReg8(0, 8, 17, identityTable())
			So(err, ShouldWrap, ErrInvalidQubit)
		})
	})
}
