package qunit

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
)

/*
SeparatedUnit is a register of qubits held as a partition of independent
subsystems. Qubits that have never interacted each live in their own small
engine; an operation that couples qubits from different subsystems merges
those subsystems first, so the dense cost is only paid where entanglement
actually exists.

A SeparatedUnit is not safe for concurrent use. Independent units share
nothing and may be driven from different goroutines.
*/
type SeparatedUnit struct {
	id         uuid.UUID
	config     *Config
	rng        *rand.Rand
	subsystems *arena
	lookup     *lookupTable
	governor   Regulator
	metrics    *Metrics
}

// New creates qubitCount qubits, all in |0>.
func New(qubitCount int, opts ...Option) (*SeparatedUnit, error) {
	return NewWithPermutation(qubitCount, 0, opts...)
}

/*
NewWithPermutation creates qubitCount qubits in the basis state initState,
where bit i of initState is qubit i. Each qubit gets its own subsystem unless
WithSingleSubsystem is given.
*/
func NewWithPermutation(qubitCount int, initState uint64, opts ...Option) (*SeparatedUnit, error) {
	if qubitCount < 1 {
		return nil, fmt.Errorf("%w: cannot create %d qubits", ErrInvalidQubit, qubitCount)
	}

	su := newSeparatedUnit(NewConfig(opts...), nil)
	su.governor.Observe(su.metrics)

	var err error
	if su.config.SingleSubsystem {
		err = su.loadSingle(qubitCount, initState)
	} else {
		err = su.loadSeparated(qubitCount, initState)
	}

	if err != nil {
		return nil, err
	}

	errnie.Info(
		"NewSeparatedUnit - id %s qubits %d state %d subsystems %d",
		su.id, qubitCount, initState, su.SubsystemCount(),
	)

	return su, nil
}

func newSeparatedUnit(config *Config, rng *rand.Rand) *SeparatedUnit {
	if rng == nil {
		seed := config.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	subsystems := newArena()

	governor := config.Regulator
	if governor == nil {
		governor = NewMergeGovernor(config.MaxSubsystemQubits, config.MemoryBudget)
	}

	return &SeparatedUnit{
		id:         uuid.New(),
		config:     config,
		rng:        rng,
		subsystems: subsystems,
		lookup:     newLookupTable(subsystems),
		governor:   governor,
		metrics:    NewMetrics(),
	}
}

// loadSeparated gives every qubit its own single-qubit subsystem.
func (su *SeparatedUnit) loadSeparated(qubitCount int, initState uint64) error {
	for q := 0; q < qubitCount; q++ {
		var bit uint64
		if q < 64 {
			bit = (initState >> q) & 1
		}

		engine, err := su.config.Factory(1, bit, su.rng)
		if err != nil {
			return err
		}

		if err := su.adoptEngine(engine, []int{q}); err != nil {
			return err
		}
	}

	return nil
}

// loadSingle puts all qubits in one subsystem.
func (su *SeparatedUnit) loadSingle(qubitCount int, initState uint64) error {
	if err := su.governor.Allow(qubitCount); err != nil {
		return err
	}

	engine, err := su.config.Factory(qubitCount, initState, su.rng)
	if err != nil {
		return err
	}

	return su.adoptEngine(engine, identities(0, qubitCount))
}

// adoptEngine allocates a slot for engine and records its residents.
func (su *SeparatedUnit) adoptEngine(engine Engine, residents []int) error {
	h := su.subsystems.alloc(engine, residents)
	su.metrics.recordWidth(len(residents))
	return su.lookup.adopt(h)
}

// copyEngine builds an engine of our own factory holding the same amplitudes
// as source, so no state or randomness is shared with it.
func (su *SeparatedUnit) copyEngine(source Engine) (Engine, error) {
	engine, err := su.config.Factory(source.QubitCount(), 0, su.rng)
	if err != nil {
		return nil, err
	}

	if err := engine.SetQuantumState(source.CloneRawState()); err != nil {
		return nil, err
	}

	return engine, nil
}

func identities(start, count int) []int {
	ids := make([]int, count)
	for i := range ids {
		ids[i] = start + i
	}
	return ids
}

/*
Clone returns an exact duplicate of the register, partition included. This
copies amplitudes directly, which no physical register allows; it exists for
debugging and for repeated trials in tests. The clone draws its randomness from
a generator seeded off this unit's, so clones of a seeded unit are reproducible
yet measure independently of one another.

A clone gets a governor of its own. A regulator supplied through WithRegulator
is shared with the clone but stays bound to this unit's metrics.
*/
func (su *SeparatedUnit) Clone() (*SeparatedUnit, error) {
	rng := rand.New(rand.NewPCG(su.rng.Uint64(), su.rng.Uint64()))
	clone := newSeparatedUnit(su.config, rng)
	clone.metrics = su.metrics.clone()

	if su.config.Regulator == nil {
		clone.governor.Observe(clone.metrics)
	}

	for _, h := range su.subsystems.handles() {
		sub, err := su.subsystems.get(h)
		if err != nil {
			return nil, err
		}

		engine, err := clone.copyEngine(sub.engine)
		if err != nil {
			return nil, err
		}

		if err := clone.adoptEngine(engine, slices.Clone(sub.residents)); err != nil {
			return nil, err
		}
	}

	return clone, nil
}

/*
Cohere appends the qubits of engine to the register as one new subsystem,
numbered from the current QubitCount upward in the engine's local order. The
engine is copied, not taken over.
*/
func (su *SeparatedUnit) Cohere(engine Engine) error {
	width := engine.QubitCount()
	if err := su.governor.Allow(width); err != nil {
		return err
	}

	copied, err := su.copyEngine(engine)
	if err != nil {
		return err
	}

	start := su.QubitCount()
	if err := su.adoptEngine(copied, identities(start, width)); err != nil {
		return err
	}

	errnie.Info("SeparatedUnit %s - cohered %d qubits at %d", su.id, width, start)
	return nil
}

/*
CohereUnit appends every qubit of other, keeping other's partition: each of its
subsystems becomes one new subsystem here. Qubit q of other becomes qubit
QubitCount()+q. other is left unchanged, and may be su itself.
*/
func (su *SeparatedUnit) CohereUnit(other *SeparatedUnit) error {
	type part struct {
		engine    Engine
		residents []int
	}

	offset := su.QubitCount()
	parts := make([]part, 0, other.SubsystemCount())

	for _, h := range other.subsystems.handles() {
		sub, err := other.subsystems.get(h)
		if err != nil {
			return err
		}

		if su.governor.Limit(len(sub.residents)) {
			if err := su.governor.Allow(len(sub.residents)); err != nil {
				return err
			}
		}

		residents := make([]int, len(sub.residents))
		for i, global := range sub.residents {
			residents[i] = global + offset
		}

		parts = append(parts, part{engine: sub.engine, residents: residents})
	}

	for _, p := range parts {
		engine, err := su.copyEngine(p.engine)
		if err != nil {
			return err
		}

		if err := su.adoptEngine(engine, p.residents); err != nil {
			return err
		}
	}

	errnie.Info(
		"SeparatedUnit %s - cohered unit %s, %d qubits in %d subsystems",
		su.id, other.id, su.QubitCount()-offset, len(parts),
	)

	return nil
}

// piece is a detached run of qubits on its way out of the register. keys[i]
// is the global qubit at local position i of engine.
type piece struct {
	engine Engine
	keys   []int
}

/*
extract detaches [start, start+length) from every subsystem holding part of it.
Each such subsystem is sorted first, which makes the range members a single
local run. A subsystem wholly inside the range is detached as is; otherwise
the run is split off, or dropped when keep is false.

The lookup entries of the range are left stale; the caller finishes with
lookup.removeRange.
*/
func (su *SeparatedUnit) extract(start, length int, keep bool) ([]piece, error) {
	list, err := su.lookup.orderedBitList(start, length)
	if err != nil {
		return nil, err
	}

	var (
		pieces []piece
		seen   []Handle
	)

	for _, entry := range list {
		if slices.Contains(seen, entry.Handle) {
			continue
		}
		seen = append(seen, entry.Handle)

		if err := su.reorder(entry.Handle); err != nil {
			return nil, err
		}

		sub, err := su.subsystems.get(entry.Handle)
		if err != nil {
			return nil, err
		}

		first := slices.IndexFunc(sub.residents, func(global int) bool {
			return global >= start && global < start+length
		})

		count := 0
		for first+count < len(sub.residents) && sub.residents[first+count] < start+length {
			count++
		}

		keys := slices.Clone(sub.residents[first : first+count])

		if count == len(sub.residents) {
			pieces = append(pieces, piece{engine: sub.engine, keys: keys})
			if err := su.subsystems.release(entry.Handle); err != nil {
				return nil, err
			}
			continue
		}

		if keep {
			part, err := sub.engine.Decohere(first, count)
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, piece{engine: part, keys: keys})
		} else if err := sub.engine.Dispose(first, count); err != nil {
			return nil, err
		}

		if err := su.lookup.compact(entry.Handle, first, count); err != nil {
			return nil, err
		}

		su.metrics.recordSplit()
	}

	return pieces, nil
}

/*
Decohere removes [start, start+length) from the register and returns it as a
new engine whose local order is the range's global order. Qubits above the
range are renumbered down by length.

The range must be separable from the rest of the register. This is not
checked: extracting an entangled range yields a meaningless state.
*/
func (su *SeparatedUnit) Decohere(start, length int) (Engine, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidRange, length)
	}

	if err := su.lookup.checkRange(start, length); err != nil {
		return nil, err
	}

	if err := su.governor.Allow(length); err != nil {
		return nil, err
	}

	pieces, err := su.extract(start, length, true)
	if err != nil {
		return nil, err
	}

	dest := pieces[0].engine
	keys := pieces[0].keys

	for _, p := range pieces[1:] {
		if err := dest.Cohere(p.engine); err != nil {
			return nil, err
		}
		keys = append(keys, p.keys...)
	}

	sortScratch(dest, keys)
	su.lookup.removeRange(start, length)

	errnie.Info("SeparatedUnit %s - decohered %d qubits at %d", su.id, length, start)
	return dest, nil
}

// Dispose discards [start, start+length) under the same separability
// contract as Decohere.
func (su *SeparatedUnit) Dispose(start, length int) error {
	if length < 1 {
		return fmt.Errorf("%w: length %d", ErrInvalidRange, length)
	}

	if err := su.lookup.checkRange(start, length); err != nil {
		return err
	}

	if _, err := su.extract(start, length, false); err != nil {
		return err
	}

	su.lookup.removeRange(start, length)

	errnie.Info("SeparatedUnit %s - disposed %d qubits at %d", su.id, length, start)
	return nil
}

/*
CloneRawState materialises the whole register as one amplitude vector indexed
by global qubit order. The governor treats this like a merge of everything, so
it fails with ErrCapacityExceeded on registers too wide to hold densely.
*/
func (su *SeparatedUnit) CloneRawState() ([]complex128, error) {
	if err := su.governor.Allow(su.QubitCount()); err != nil {
		return nil, err
	}

	if su.QubitCount() == 0 {
		return []complex128{1}, nil
	}

	var (
		scratch Engine
		keys    []int
	)

	for _, h := range su.subsystems.handles() {
		sub, err := su.subsystems.get(h)
		if err != nil {
			return nil, err
		}

		if scratch == nil {
			scratch = sub.engine.Clone()
		} else if err := scratch.Cohere(sub.engine); err != nil {
			return nil, err
		}

		keys = append(keys, sub.residents...)
	}

	sortScratch(scratch, keys)
	return scratch.CloneRawState(), nil
}

// SetQuantumState replaces the register with state, indexed by global qubit
// order, held as a single subsystem.
func (su *SeparatedUnit) SetQuantumState(state []complex128) error {
	qubitCount := su.QubitCount()
	if uint64(len(state)) != uint64(1)<<qubitCount {
		return fmt.Errorf("%w: got %d amplitudes for %d qubits", ErrStateSize, len(state), qubitCount)
	}

	if err := su.governor.Allow(qubitCount); err != nil {
		return err
	}

	if qubitCount == 0 {
		return su.releaseAll()
	}

	engine, err := su.config.Factory(qubitCount, 0, su.rng)
	if err != nil {
		return err
	}

	if err := engine.SetQuantumState(state); err != nil {
		return err
	}

	if err := su.releaseAll(); err != nil {
		return err
	}

	return su.adoptEngine(engine, identities(0, qubitCount))
}

/*
SetPermutation resets the register to the basis state value, where bit i is
qubit i. A basis state is a product state, so the register goes back to one
subsystem per qubit.
*/
func (su *SeparatedUnit) SetPermutation(value uint64) error {
	qubitCount := su.QubitCount()

	if err := su.releaseAll(); err != nil {
		return err
	}

	su.lookup.entries = su.lookup.entries[:0]
	return su.loadSeparated(qubitCount, value)
}

func (su *SeparatedUnit) releaseAll() error {
	for _, h := range su.subsystems.handles() {
		if err := su.subsystems.release(h); err != nil {
			return err
		}
	}
	return nil
}

// QubitCount is the number of qubits in the register.
func (su *SeparatedUnit) QubitCount() int {
	return su.lookup.qubitCount()
}

// SubsystemCount is the number of live subsystems in the partition.
func (su *SeparatedUnit) SubsystemCount() int {
	return len(su.subsystems.handles())
}

// SubsystemOf reports which subsystem holds q and at what local position.
func (su *SeparatedUnit) SubsystemOf(q int) (Handle, int, error) {
	return su.lookup.locate(q)
}

/*
Partition lists the global qubits of every live subsystem, each group in local
order. Two qubits share a group exactly when they share an engine.
*/
func (su *SeparatedUnit) Partition() [][]int {
	handles := su.subsystems.handles()
	groups := make([][]int, 0, len(handles))

	for _, h := range handles {
		sub, _ := su.subsystems.get(h)
		groups = append(groups, slices.Clone(sub.residents))
	}

	return groups
}

// CheckPartition verifies the index table covers the register exactly once.
func (su *SeparatedUnit) CheckPartition() error {
	return su.lookup.checkPartition()
}

// Metrics returns the live counters of structural work done on the register.
func (su *SeparatedUnit) Metrics() *Metrics {
	return su.metrics
}

// ID identifies the unit in log lines.
func (su *SeparatedUnit) ID() uuid.UUID {
	return su.id
}
