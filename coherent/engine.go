package coherent

import "math/rand/v2"

/*
Engine is the contract of a dense-amplitude subsystem. An Engine owns the joint
amplitude vector of a contiguous set of locally numbered qubits, where bit i of a
basis index corresponds to local qubit i.

Every position argument is a local position inside the engine. Callers guarantee
positions are in range and, for multi-qubit primitives, distinct.
*/
type Engine interface {
	QubitCount() int

	// Cohere appends the qubits of other after this engine's own qubits, leaving
	// this engine holding the tensor product. other is not modified.
	Cohere(other Engine) error
	// Decohere removes [start, start+length) into a new independent engine. The
	// range is assumed separable from the rest; if it is not, the result is
	// meaningless.
	Decohere(start, length int) (Engine, error)
	// Dispose is Decohere without keeping the extracted part.
	Dispose(start, length int) error

	Swap(qubit1, qubit2 int)
	Clone() Engine
	CloneRawState() []complex128
	SetQuantumState(state []complex128) error

	Prob(qubit int) float64
	M(qubit int) bool
	MReg(start, length int) uint64
	SetBit(qubit int, value bool)
	SetReg(start, length int, value uint64)

	H(qubit int)
	X(qubit int)
	Y(qubit int)
	Z(qubit int)
	RT(radians float64, qubit int)
	RX(radians float64, qubit int)
	RY(radians float64, qubit int)
	RZ(radians float64, qubit int)

	CNOT(control, target int)
	AntiCNOT(control, target int)
	CY(control, target int)
	CZ(control, target int)
	CRT(radians float64, control, target int)
	CRY(radians float64, control, target int)
	CRZ(radians float64, control, target int)
	CCNOT(control1, control2, target int)
	AntiCCNOT(control1, control2, target int)

	SuperposeReg8(inputStart, outputStart int, values []byte) byte
	AdcSuperposeReg8(inputStart, outputStart, carryIndex int, values []byte) byte
	SbcSuperposeReg8(inputStart, outputStart, carryIndex int, values []byte) byte
}

// EngineFactory builds a fresh engine of qubitCount qubits in the basis state
// initState, drawing measurement randomness from rng.
type EngineFactory func(qubitCount int, initState uint64, rng *rand.Rand) (Engine, error)
