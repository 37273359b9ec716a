package qunit

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/davecgh/go-spew/spew"
)

// qbLookup places one global qubit: the subsystem holding it and its local
// position there.
type qbLookup struct {
	handle Handle
	local  int
}

/*
lookupTable is the single source of truth for qubit placement. The forward
direction is entries, indexed by global qubit; the reverse direction is each
subsystem's residents slice. Every mutation goes through a method that keeps
both directions in step.
*/
type lookupTable struct {
	entries    []qbLookup
	subsystems *arena
}

func newLookupTable(subsystems *arena) *lookupTable {
	return &lookupTable{subsystems: subsystems}
}

func (lt *lookupTable) qubitCount() int {
	return len(lt.entries)
}

func (lt *lookupTable) locate(global int) (Handle, int, error) {
	if global < 0 || global >= len(lt.entries) {
		return Handle{}, 0, fmt.Errorf("%w: %d of %d", ErrInvalidQubit, global, len(lt.entries))
	}

	entry := lt.entries[global]
	return entry.handle, entry.local, nil
}

// locateEngine resolves a qubit straight to its engine and local position.
func (lt *lookupTable) locateEngine(global int) (Engine, int, error) {
	h, local, err := lt.locate(global)
	if err != nil {
		return nil, 0, err
	}

	sub, err := lt.subsystems.get(h)
	if err != nil {
		return nil, 0, err
	}

	return sub.engine, local, nil
}

// record places global at (h, local). The subsystem's residents slice must
// already be long enough to hold local.
func (lt *lookupTable) record(global int, h Handle, local int) error {
	sub, err := lt.subsystems.get(h)
	if err != nil {
		return err
	}

	lt.entries[global] = qbLookup{handle: h, local: local}
	sub.residents[local] = global

	return nil
}

// swapLocal exchanges the qubits at two local positions of one subsystem.
func (lt *lookupTable) swapLocal(h Handle, a, b int) error {
	sub, err := lt.subsystems.get(h)
	if err != nil {
		return err
	}

	ga, gb := sub.residents[a], sub.residents[b]
	sub.residents[a], sub.residents[b] = gb, ga
	lt.entries[ga].local = b
	lt.entries[gb].local = a

	return nil
}

/*
relabel exchanges the placements of two global qubits held by different
subsystems. Nothing moves physically: the qubits simply trade identities.
*/
func (lt *lookupTable) relabel(q1, q2 int) error {
	e1, e2 := lt.entries[q1], lt.entries[q2]

	sub1, err := lt.subsystems.get(e1.handle)
	if err != nil {
		return err
	}

	sub2, err := lt.subsystems.get(e2.handle)
	if err != nil {
		return err
	}

	sub1.residents[e1.local] = q2
	sub2.residents[e2.local] = q1
	lt.entries[q1], lt.entries[q2] = e2, e1

	return nil
}

// adopt registers a freshly allocated subsystem whose residents are already
// filled in.
func (lt *lookupTable) adopt(h Handle) error {
	sub, err := lt.subsystems.get(h)
	if err != nil {
		return err
	}

	for local, global := range sub.residents {
		for global >= len(lt.entries) {
			lt.entries = append(lt.entries, qbLookup{})
		}
		lt.entries[global] = qbLookup{handle: h, local: local}
	}

	return nil
}

/*
removeRange drops the globals [start, start+length), which must no longer be
resident anywhere, and renumbers every higher global down by length in both
directions of the table.
*/
func (lt *lookupTable) removeRange(start, length int) {
	lt.entries = append(lt.entries[:start], lt.entries[start+length:]...)

	for _, h := range lt.subsystems.handles() {
		sub, _ := lt.subsystems.get(h)
		for local, global := range sub.residents {
			if global >= start+length {
				sub.residents[local] = global - length
			}
		}
	}
}

// compact removes local positions [start, start+count) from a subsystem's
// reverse index and shifts the forward entries of everything above them.
func (lt *lookupTable) compact(h Handle, start, count int) error {
	sub, err := lt.subsystems.get(h)
	if err != nil {
		return err
	}

	sub.residents = append(sub.residents[:start], sub.residents[start+count:]...)
	for local := start; local < len(sub.residents); local++ {
		lt.entries[sub.residents[local]].local = local
	}

	return nil
}

/*
checkPartition verifies that the live subsystems cover every global qubit
exactly once and that both directions of the table agree.
*/
func (lt *lookupTable) checkPartition() error {
	seen := roaring.New()

	for _, h := range lt.subsystems.handles() {
		sub, err := lt.subsystems.get(h)
		if err != nil {
			return err
		}

		if sub.engine.QubitCount() != len(sub.residents) {
			return fmt.Errorf(
				"%w: %s holds %d qubits but lists %d residents",
				ErrPartitionBroken, h, sub.engine.QubitCount(), len(sub.residents),
			)
		}

		for local, global := range sub.residents {
			if global < 0 || global >= len(lt.entries) {
				return fmt.Errorf("%w: %s lists unknown qubit %d", ErrPartitionBroken, h, global)
			}

			if !seen.CheckedAdd(uint32(global)) {
				return fmt.Errorf(
					"%w: qubit %d resident twice\n%s",
					ErrPartitionBroken, global, spew.Sdump(lt.entries),
				)
			}

			if lt.entries[global] != (qbLookup{handle: h, local: local}) {
				return fmt.Errorf(
					"%w: qubit %d expected at %s:%d, table says %s:%d",
					ErrPartitionBroken, global, h, local, lt.entries[global].handle, lt.entries[global].local,
				)
			}
		}
	}

	if seen.GetCardinality() != uint64(len(lt.entries)) {
		return fmt.Errorf(
			"%w: %d of %d qubits resident\n%s",
			ErrPartitionBroken, seen.GetCardinality(), len(lt.entries), spew.Sdump(lt.entries),
		)
	}

	return nil
}
