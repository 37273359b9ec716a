// Package coherent is a dense state-vector engine: one contiguous amplitude
// block for a set of qubits that are allowed to be arbitrarily entangled.
package coherent

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
)

// MaxQubits bounds a single amplitude block; 2^40 amplitudes is already 16 TiB.
const MaxQubits = 40

var (
	ErrQubitCount = errors.New("coherent: invalid qubit count")
	ErrRange      = errors.New("coherent: invalid qubit range")
	ErrStateSize  = errors.New("coherent: state vector length does not match qubit count")
)

/*
CoherentUnit holds the full 2^n amplitude vector of n qubits. It is the
worst-case representation: every qubit may be entangled with every other.
*/
type CoherentUnit struct {
	qubitCount int
	maxQPower  uint64
	stateVec   []complex128
	rng        *rand.Rand
}

// NewCoherentUnit prepares qubitCount qubits in the basis state initState.
// A nil rng gets a randomly seeded PCG source.
func NewCoherentUnit(qubitCount int, initState uint64, rng *rand.Rand) (*CoherentUnit, error) {
	if qubitCount < 1 || qubitCount > MaxQubits {
		return nil, fmt.Errorf("%w: %d", ErrQubitCount, qubitCount)
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	cu := &CoherentUnit{
		qubitCount: qubitCount,
		maxQPower:  uint64(1) << qubitCount,
		rng:        rng,
	}

	cu.stateVec = make([]complex128, cu.maxQPower)
	cu.stateVec[initState&(cu.maxQPower-1)] = 1

	return cu, nil
}

// Factory adapts NewCoherentUnit to the EngineFactory signature.
func Factory(qubitCount int, initState uint64, rng *rand.Rand) (Engine, error) {
	cu, err := NewCoherentUnit(qubitCount, initState, rng)
	if err != nil {
		return nil, err
	}
	return cu, nil
}

func (cu *CoherentUnit) QubitCount() int {
	return cu.qubitCount
}

func (cu *CoherentUnit) Clone() Engine {
	state := make([]complex128, len(cu.stateVec))
	copy(state, cu.stateVec)

	return &CoherentUnit{
		qubitCount: cu.qubitCount,
		maxQPower:  cu.maxQPower,
		stateVec:   state,
		rng:        cu.rng,
	}
}

func (cu *CoherentUnit) CloneRawState() []complex128 {
	state := make([]complex128, len(cu.stateVec))
	copy(state, cu.stateVec)
	return state
}

func (cu *CoherentUnit) SetQuantumState(state []complex128) error {
	if uint64(len(state)) != cu.maxQPower {
		return fmt.Errorf("%w: got %d, want %d", ErrStateSize, len(state), cu.maxQPower)
	}

	copy(cu.stateVec, state)
	return nil
}

/*
Cohere replaces this unit's state with the tensor product of itself and other.
The other unit's qubits land at local positions qubitCount..qubitCount+m-1, in
their original relative order. The new vector is allocated before anything is
replaced, so a failure leaves the unit untouched.
*/
func (cu *CoherentUnit) Cohere(other Engine) error {
	otherCount := other.QubitCount()
	if cu.qubitCount+otherCount > MaxQubits {
		return fmt.Errorf("%w: cohering %d and %d qubits", ErrQubitCount, cu.qubitCount, otherCount)
	}

	otherState := other.CloneRawState()
	nQubits := cu.qubitCount + otherCount
	nState := make([]complex128, uint64(1)<<nQubits)

	for j, b := range otherState {
		if b == 0 {
			continue
		}
		high := uint64(j) << cu.qubitCount
		for i, a := range cu.stateVec {
			nState[high|uint64(i)] = a * b
		}
	}

	cu.qubitCount = nQubits
	cu.maxQPower = uint64(1) << nQubits
	cu.stateVec = nState

	return nil
}

func (cu *CoherentUnit) Decohere(start, length int) (Engine, error) {
	part, err := cu.split(start, length)
	if err != nil {
		return nil, err
	}
	return part, nil
}

func (cu *CoherentUnit) Dispose(start, length int) error {
	_, err := cu.split(start, length)
	return err
}

/*
split factors the state as part ⊗ remainder, assuming it is separable. The
slices through the most probable basis state give both factors up to a global
phase, which is removed from the remainder so the product reproduces the
original amplitudes.
*/
func (cu *CoherentUnit) split(start, length int) (*CoherentUnit, error) {
	if start < 0 || length < 1 || start+length > cu.qubitCount || length == cu.qubitCount {
		return nil, fmt.Errorf("%w: start %d length %d of %d", ErrRange, start, length, cu.qubitCount)
	}

	restCount := cu.qubitCount - length
	partPower := uint64(1) << length
	restPower := uint64(1) << restCount
	lowMask := uint64(1)<<start - 1

	compose := func(part, rest uint64) uint64 {
		return (rest & lowMask) | (part << start) | ((rest &^ lowMask) << length)
	}

	var (
		best     uint64
		bestProb float64
	)
	for i, amp := range cu.stateVec {
		if p := norm(amp); p > bestProb {
			best, bestProb = uint64(i), p
		}
	}

	bestPart := (best >> start) & (partPower - 1)
	bestRest := (best & lowMask) | ((best >> (start + length)) << start)

	partState := make([]complex128, partPower)
	var partNorm float64
	for j := uint64(0); j < partPower; j++ {
		partState[j] = cu.stateVec[compose(j, bestRest)]
		partNorm += norm(partState[j])
	}

	restState := make([]complex128, restPower)
	var restNorm float64
	for k := uint64(0); k < restPower; k++ {
		restState[k] = cu.stateVec[compose(bestPart, k)]
		restNorm += norm(restState[k])
	}

	phase := cmplx.Conj(cu.stateVec[best]) / complex(math.Sqrt(bestProb), 0)
	partScale := complex(1/math.Sqrt(partNorm), 0)
	restScale := complex(1/math.Sqrt(restNorm), 0) * phase

	for j := range partState {
		partState[j] *= partScale
	}
	for k := range restState {
		restState[k] *= restScale
	}

	cu.qubitCount = restCount
	cu.maxQPower = restPower
	cu.stateVec = restState

	return &CoherentUnit{
		qubitCount: length,
		maxQPower:  partPower,
		stateVec:   partState,
		rng:        cu.rng,
	}, nil
}

func (cu *CoherentUnit) Swap(qubit1, qubit2 int) {
	if qubit1 == qubit2 {
		return
	}

	bit1 := uint64(1) << qubit1
	bit2 := uint64(1) << qubit2

	for i := uint64(0); i < cu.maxQPower; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			cu.stateVec[i], cu.stateVec[j] = cu.stateVec[j], cu.stateVec[i]
		}
	}
}

func norm(amp complex128) float64 {
	return real(amp)*real(amp) + imag(amp)*imag(amp)
}
