package qunit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/theapemachine/errnie"
)

/*
entangleBitList folds every subsystem referenced by list into one and sorts
it into ascending global order.

Subsystems are merged in the order they are first referenced: each one is
cohered onto the accumulating target, so its qubits land after the target's
existing ones, and every moved qubit is re-recorded before the absorbed slot
is released. The governor sees the final width before anything is touched, so
a refused merge leaves the partition exactly as it was.

The returned handle is the only live handle among those in list.
*/
func (su *SeparatedUnit) entangleBitList(list []BitListEntry) (Handle, error) {
	if len(list) == 0 {
		return Handle{}, fmt.Errorf("%w: empty bit list", ErrInvalidRange)
	}

	marks := bitset.New(uint(su.subsystems.size()))
	handles := make([]Handle, 0, len(list))
	width := 0

	for _, entry := range list {
		if marks.Test(uint(entry.Handle.slot)) {
			continue
		}
		marks.Set(uint(entry.Handle.slot))

		sub, err := su.subsystems.get(entry.Handle)
		if err != nil {
			return Handle{}, err
		}

		handles = append(handles, entry.Handle)
		width += len(sub.residents)
	}

	if len(handles) > 1 {
		if err := su.governor.Allow(width); err != nil {
			errnie.Info("SeparatedUnit %s - merge of %d subsystems refused: %v", su.id, len(handles), err)
			return Handle{}, err
		}
	}

	target := handles[0]
	for _, h := range handles[1:] {
		if err := su.merge(target, h); err != nil {
			return Handle{}, err
		}
	}

	if err := su.reorder(target); err != nil {
		return Handle{}, err
	}

	return target, nil
}

/*
entangleIndices is the short path for gates on a handful of explicit qubits
that need not be contiguous, such as controlled and three-qubit gates.
*/
func (su *SeparatedUnit) entangleIndices(qubits ...int) (Handle, error) {
	list := make([]BitListEntry, 0, len(qubits))

	for _, q := range qubits {
		h, local, err := su.lookup.locate(q)
		if err != nil {
			return Handle{}, err
		}
		list = append(list, BitListEntry{Handle: h, Start: local, Length: 1})
	}

	return su.entangleBitList(list)
}

// merge coheres other onto target and moves other's residents across.
func (su *SeparatedUnit) merge(target, other Handle) error {
	dst, err := su.subsystems.get(target)
	if err != nil {
		return err
	}

	src, err := su.subsystems.get(other)
	if err != nil {
		return err
	}

	if err := dst.engine.Cohere(src.engine); err != nil {
		return fmt.Errorf("merging %s into %s: %w", other, target, err)
	}

	offset := len(dst.residents)
	moved := src.residents
	dst.residents = append(dst.residents, make([]int, len(moved))...)

	if err := su.subsystems.release(other); err != nil {
		return err
	}

	for i, global := range moved {
		if err := su.lookup.record(global, target, offset+i); err != nil {
			return err
		}
	}

	su.metrics.recordMerge(len(dst.residents))
	errnie.Info("SeparatedUnit %s - merged %s into %s, width %d", su.id, other, target, len(dst.residents))

	return nil
}

/*
entangleParallel prepares a bitwise register operation over equal-length
ranges that begin at starts. For every offset where coupled reports true, the
qubits at that offset in each range must end up in one subsystem.

The ranges are compiled as parallel bit lists and concatenated, so each
subsystem shows up once however many of its qubits the ranges cover. The
subsystems joined by some offset form groups, and each group is folded with
a single entangleBitList. Every group's width is put to the governor before
the first merge, so a refusal leaves the partition as it was.
*/
func (su *SeparatedUnit) entangleParallel(starts []int, length int, coupled func(offset int) bool) error {
	var list []BitListEntry

	for _, start := range starts {
		part, err := su.lookup.parallelBitList(start, length)
		if err != nil {
			return err
		}
		list = append(list, part...)
	}

	list = optimizeParallelBitList(list)

	parent := make([]int, su.subsystems.size())
	for i := range parent {
		parent[i] = -1
	}

	find := func(slot int) int {
		for parent[slot] != slot {
			parent[slot] = parent[parent[slot]]
			slot = parent[slot]
		}
		return slot
	}

	join := func(slot int) {
		if parent[slot] < 0 {
			parent[slot] = slot
		}
	}

	for offset := 0; offset < length; offset++ {
		if !coupled(offset) {
			continue
		}

		root := -1
		for _, start := range starts {
			h, _, err := su.lookup.locate(start + offset)
			if err != nil {
				return err
			}

			slot := int(h.slot)
			join(slot)
			if root < 0 {
				root = find(slot)
				continue
			}
			parent[find(slot)] = root
		}
	}

	var (
		roots  []int
		groups = map[int][]BitListEntry{}
		widths = map[int]int{}
		counts = map[int]int{}
		marks  = bitset.New(uint(len(parent)))
	)

	for _, entry := range list {
		slot := int(entry.Handle.slot)
		if parent[slot] < 0 {
			continue
		}

		root := find(slot)
		if _, ok := groups[root]; !ok {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], entry)

		if marks.Test(uint(slot)) {
			continue
		}
		marks.Set(uint(slot))

		sub, err := su.subsystems.get(entry.Handle)
		if err != nil {
			return err
		}
		widths[root] += len(sub.residents)
		counts[root]++
	}

	for _, root := range roots {
		if counts[root] < 2 {
			continue
		}

		if err := su.governor.Allow(widths[root]); err != nil {
			errnie.Info("SeparatedUnit %s - parallel merge refused: %v", su.id, err)
			return err
		}
	}

	for _, root := range roots {
		if counts[root] < 2 {
			continue
		}

		if _, err := su.entangleBitList(groups[root]); err != nil {
			return err
		}
	}

	return nil
}
