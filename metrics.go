package qunit

import (
	"sync"
)

/*
Metrics counts the structural work a SeparatedUnit does. Gates that stay inside
one subsystem are not counted; only merges, splits, reorders and relabels are,
since those are what the partition costs.
*/
type Metrics struct {
	mu sync.RWMutex

	Merges        int64
	Splits        int64
	PhysicalSwaps int64
	Relabels      int64
	Refusals      int64

	// PeakSubsystemQubits is the widest subsystem ever produced.
	PeakSubsystemQubits int
}

// NewMetrics returns zeroed counters.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordMerge(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Merges++
	m.observeWidth(width)
}

func (m *Metrics) recordSplit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Splits++
}

func (m *Metrics) recordSwap() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PhysicalSwaps++
}

func (m *Metrics) recordRelabel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Relabels++
}

func (m *Metrics) recordRefusal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refusals++
}

// recordWidth notes a subsystem created outside a merge, such as a cohered
// engine or a loaded state.
func (m *Metrics) recordWidth(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observeWidth(width)
}

func (m *Metrics) observeWidth(width int) {
	if width > m.PeakSubsystemQubits {
		m.PeakSubsystemQubits = width
	}
}

func (m *Metrics) clone() *Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &Metrics{
		Merges:              m.Merges,
		Splits:              m.Splits,
		PhysicalSwaps:       m.PhysicalSwaps,
		Relabels:            m.Relabels,
		Refusals:            m.Refusals,
		PeakSubsystemQubits: m.PeakSubsystemQubits,
	}
}

// ExportMetrics returns a point-in-time copy for logging or a scrape endpoint.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"merges":                m.Merges,
		"splits":                m.Splits,
		"physical_swaps":        m.PhysicalSwaps,
		"relabels":              m.Relabels,
		"refusals":              m.Refusals,
		"peak_subsystem_qubits": m.PeakSubsystemQubits,
	}
}
