package qunit

/*
quickSortQubits sorts keys[low..high] ascending. keys is the reverse index of
a subsystem: keys[local] is the global qubit at that local position. The sort
never exchanges keys itself; every exchange goes through swap, which must move
the amplitudes and exchange keys[a] and keys[b] together, so the reverse index
is always the record of where each qubit physically sits.

The pivot is the last element and self-exchanges are skipped, so an already
sorted subsystem costs comparisons only and no physical swaps.
*/
func quickSortQubits(keys []int, low, high int, swap func(a, b int)) {
	for low < high {
		p := partitionQubits(keys, low, high, swap)

		if p-low < high-p {
			quickSortQubits(keys, low, p-1, swap)
			low = p + 1
		} else {
			quickSortQubits(keys, p+1, high, swap)
			high = p - 1
		}
	}
}

func partitionQubits(keys []int, low, high int, swap func(a, b int)) int {
	pivot := keys[high]
	i := low

	for j := low; j < high; j++ {
		if keys[j] < pivot {
			if i != j {
				swap(i, j)
			}
			i++
		}
	}

	if i != high {
		swap(i, high)
	}

	return i
}

/*
reorder physically sorts one subsystem so its local order matches ascending
global order. After it returns, every contiguous global range held by the
subsystem is locally contiguous and in significance order.
*/
func (su *SeparatedUnit) reorder(h Handle) error {
	sub, err := su.subsystems.get(h)
	if err != nil {
		return err
	}

	var swapErr error
	quickSortQubits(sub.residents, 0, len(sub.residents)-1, func(a, b int) {
		if swapErr != nil {
			return
		}

		sub.engine.Swap(a, b)
		swapErr = su.lookup.swapLocal(h, a, b)
		su.metrics.recordSwap()
	})

	return swapErr
}

// sortScratch sorts a detached engine whose reverse index is keys. Nothing in
// the lookup table refers to it.
func sortScratch(engine Engine, keys []int) {
	quickSortQubits(keys, 0, len(keys)-1, func(a, b int) {
		engine.Swap(a, b)
		keys[a], keys[b] = keys[b], keys[a]
	})
}
