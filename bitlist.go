package qunit

import "fmt"

// BitListEntry is a run of Length consecutive local positions, starting at
// Start, inside one subsystem.
type BitListEntry struct {
	Handle Handle
	Start  int
	Length int
}

func (e BitListEntry) end() int {
	return e.Start + e.Length
}

func (lt *lookupTable) checkRange(start, length int) error {
	if start < 0 || length < 0 || start+length > len(lt.entries) {
		return fmt.Errorf("%w: start %d length %d of %d", ErrInvalidRange, start, length, len(lt.entries))
	}
	return nil
}

/*
orderedBitList compiles the global range [start, start+length) into runs that
preserve bit significance: entries appear in global order, and a run only grows
while consecutive globals sit at consecutive local positions of the same
subsystem. Use it when the operation reads or writes the range as a number.
*/
func (lt *lookupTable) orderedBitList(start, length int) ([]BitListEntry, error) {
	if err := lt.checkRange(start, length); err != nil {
		return nil, err
	}

	list := make([]BitListEntry, 0, length)

	for global := start; global < start+length; global++ {
		entry := lt.entries[global]

		if n := len(list); n > 0 && list[n-1].Handle == entry.handle && list[n-1].end() == entry.local {
			list[n-1].Length++
			continue
		}

		list = append(list, BitListEntry{Handle: entry.handle, Start: entry.local, Length: 1})
	}

	return list, nil
}

/*
parallelBitList compiles the same range for an operation that treats every
bit independently. A qubit joins any existing run of its subsystem that it
extends at either end, regardless of where that run sits in global order, and
the result is passed through optimizeParallelBitList.
*/
func (lt *lookupTable) parallelBitList(start, length int) ([]BitListEntry, error) {
	if err := lt.checkRange(start, length); err != nil {
		return nil, err
	}

	list := make([]BitListEntry, 0, length)

	for global := start; global < start+length; global++ {
		entry := lt.entries[global]
		joined := false

		for i := range list {
			if list[i].Handle != entry.handle {
				continue
			}

			switch entry.local {
			case list[i].end():
				list[i].Length++
				joined = true
			case list[i].Start - 1:
				list[i].Start--
				list[i].Length++
				joined = true
			}

			if joined {
				break
			}
		}

		if !joined {
			list = append(list, BitListEntry{Handle: entry.handle, Start: entry.local, Length: 1})
		}
	}

	return optimizeParallelBitList(list), nil
}

/*
optimizeParallelBitList fuses runs of the same subsystem that became adjacent
and drops empty runs, repeating until nothing changes. It also accepts the
concatenation of several parallel lists.
*/
func optimizeParallelBitList(list []BitListEntry) []BitListEntry {
	out := make([]BitListEntry, 0, len(list))
	for _, entry := range list {
		if entry.Length > 0 {
			out = append(out, entry)
		}
	}

	for changed := true; changed; {
		changed = false

		for i := 0; i < len(out) && !changed; i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].Handle != out[j].Handle {
					continue
				}

				switch {
				case out[i].end() == out[j].Start:
					out[i].Length += out[j].Length
				case out[j].end() == out[i].Start:
					out[i].Start = out[j].Start
					out[i].Length += out[j].Length
				default:
					continue
				}

				out = append(out[:j], out[j+1:]...)
				changed = true
				break
			}
		}
	}

	return out
}
