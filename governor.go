package qunit

import (
	"fmt"
	"math"
	"sync"
)

// amplitudeBytes is the size of one complex128 amplitude.
const amplitudeBytes = 16

/*
MergeGovernor decides whether a subsystem of a given width may be created. It
is consulted before any merge or full-register materialisation touches the
lookup table, which is what keeps a refused merge from leaving the partition
half updated.

Two limits apply:
  - a hard cap on qubits per subsystem
  - an optional byte budget for a single amplitude block
*/
type MergeGovernor struct {
	mu sync.RWMutex

	maxQubits    int
	memoryBudget uint64
	metrics      *Metrics
}

// NewMergeGovernor caps subsystems at maxQubits and their amplitude blocks at
// memoryBudget bytes. A zero value disables that limit.
func NewMergeGovernor(maxQubits int, memoryBudget uint64) *MergeGovernor {
	return &MergeGovernor{
		maxQubits:    maxQubits,
		memoryBudget: memoryBudget,
	}
}

// Observe attaches the metrics that refusals are counted into.
func (g *MergeGovernor) Observe(metrics *Metrics) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.metrics = metrics
}

// Limit reports whether a subsystem of the given width would be refused,
// without counting a refusal.
func (g *MergeGovernor) Limit(qubits int) bool {
	return g.check(qubits) != nil
}

// Allow returns ErrCapacityExceeded when qubits is over either limit.
func (g *MergeGovernor) Allow(qubits int) error {
	err := g.check(qubits)

	g.mu.RLock()
	metrics := g.metrics
	g.mu.RUnlock()

	if err != nil && metrics != nil {
		metrics.recordRefusal()
	}

	return err
}

func (g *MergeGovernor) check(qubits int) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.maxQubits > 0 && qubits > g.maxQubits {
		return fmt.Errorf("%w: %d qubits, limit %d", ErrCapacityExceeded, qubits, g.maxQubits)
	}

	if g.memoryBudget == 0 {
		return nil
	}

	bytes, ok := blockBytes(qubits)
	if !ok || bytes > g.memoryBudget {
		return fmt.Errorf(
			"%w: %d qubits need %s, budget %d bytes",
			ErrCapacityExceeded, qubits, formatBlock(bytes, ok), g.memoryBudget,
		)
	}

	return nil
}

// GetThresholds returns the qubit cap and the memory budget.
func (g *MergeGovernor) GetThresholds() (qubits int, memory uint64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maxQubits, g.memoryBudget
}

// blockBytes is 16 * 2^qubits, with ok false on overflow.
func blockBytes(qubits int) (uint64, bool) {
	if qubits < 0 || qubits > 59 {
		return math.MaxUint64, false
	}
	return amplitudeBytes << qubits, true
}

func formatBlock(bytes uint64, ok bool) string {
	if !ok {
		return "more than 2^64 bytes"
	}
	return fmt.Sprintf("%d bytes", bytes)
}
