package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// OriginalTable is a row-major two-dimensional table to be compressed.
type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	switch {
	case len(entries) == 0:
		return nil, fmt.Errorf("entries is empty")
	case colCount <= 0:
		return nil, fmt.Errorf("colCount must be >=1")
	case len(entries)%colCount != 0:
		return nil, fmt.Errorf("entries length is not a multiple of the column count; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) row(n int) []int {
	return t.entries[n*t.colCount : (n+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

func checkRange(row, col, rowCount, colCount int) error {
	if row < 0 || row >= rowCount || col < 0 || col >= colCount {
		return fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return nil
}

// UniqueEntriesTable stores each distinct row once. Goto tables compress well this way because most
// states share an all-empty row.
type UniqueEntriesTable struct {
	UniqueEntries    []int
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if err := checkRange(row, col, tab.OriginalRowCount, tab.OriginalColCount); err != nil {
		return 0, err
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	tab.UniqueEntries = nil
	tab.RowNums = make([]int, orig.rowCount)
	seen := map[string]int{}
	for n := 0; n < orig.rowCount; n++ {
		row := orig.row(n)
		key := rowKey(row)
		uniq, ok := seen[key]
		if !ok {
			uniq = len(seen)
			seen[key] = uniq
			tab.UniqueEntries = append(tab.UniqueEntries, row...)
		}
		tab.RowNums[n] = uniq
	}
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*binary.MaxVarintLen64)
	for _, v := range row {
		buf = binary.AppendVarint(buf, int64(v))
	}
	return string(buf)
}

// ForbiddenValue fills the bounds of slots no row owns.
const ForbiddenValue = -1

// RowDisplacementTable overlays sparse rows on one array. A row r starts at RowDisplacement[r], and
// Bounds records the owner row of every slot. A slot owned by another row reads as EmptyValue.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if err := checkRange(row, col, tab.OriginalRowCount, tab.OriginalColCount); err != nil {
		return tab.EmptyValue, err
	}
	if !tab.Contains(row, col) {
		return tab.EmptyValue, nil
	}
	return tab.Entries[tab.RowDisplacement[row]+col], nil
}

// Contains reports whether the row has a non-empty entry in the column.
func (tab *RowDisplacementTable) Contains(row int, col int) bool {
	if checkRange(row, col, tab.OriginalRowCount, tab.OriginalColCount) != nil {
		return false
	}
	return tab.Bounds[tab.RowDisplacement[row]+col] == row
}

// EmptyRow reports whether all entries of the row are empty.
func (tab *RowDisplacementTable) EmptyRow(row int) bool {
	for col := 0; col < tab.OriginalColCount; col++ {
		if tab.Contains(row, col) {
			return false
		}
	}
	return true
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

// Compress places rows densest first, each at the lowest displacement where its non-empty columns
// hit only free slots. All-empty rows keep the displacement 0.
func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	used := make([][]int, orig.rowCount)
	order := make([]int, orig.rowCount)
	for n := range order {
		order[n] = n
		for col, v := range orig.row(n) {
			if v != tab.EmptyValue {
				used[n] = append(used[n], col)
			}
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(used[order[i]]) > len(used[order[j]])
	})

	var entries, bounds []int
	grow := func(size int) {
		for len(bounds) < size {
			entries = append(entries, tab.EmptyValue)
			bounds = append(bounds, ForbiddenValue)
		}
	}
	grow(orig.colCount)

	disp := make([]int, orig.rowCount)
	next := 0
	for _, n := range order {
		if len(used[n]) == 0 {
			break
		}
		d := next
		for ; ; d++ {
			grow(d + orig.colCount)
			if slotsFree(bounds, d, used[n]) {
				break
			}
		}
		disp[n] = d
		row := orig.row(n)
		for _, col := range used[n] {
			entries[d+col] = row[col]
			bounds[d+col] = n
		}
		next = d + 1
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries
	tab.Bounds = bounds
	tab.RowDisplacement = disp

	return nil
}

func slotsFree(bounds []int, disp int, cols []int) bool {
	for _, col := range cols {
		if bounds[disp+col] != ForbiddenValue {
			return false
		}
	}
	return true
}
