package sheet

import (
	"fmt"

	"github.com/opendsi/googoal/internal/frame"
)

// CellChange is one cell write planned by an update.
type CellChange struct {
	Index  string
	Column string
	Value  any
}

// Plan is the set of changes an update will apply: cell rewrites for
// rows present on both sides, new rows to append and stale rows to
// remove.
type Plan struct {
	Updates []CellChange
	Add     []string
	Remove  []string
}

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool {
	return len(p.Updates) == 0 && len(p.Add) == 0 && len(p.Remove) == 0
}

// PlanUpdate computes the changes that bring current in line with
// desired. Both frames must have unique indices and the same column
// set. When columns is non-empty only those columns are compared.
// With overwrite false, cells only gain values where the current one
// is empty, and no rows are removed.
func PlanUpdate(current, desired *frame.Frame, columns []string, overwrite bool) (*Plan, error) {
	if !desired.UniqueIndex() {
		return nil, fmt.Errorf("index of the updating frame is not unique")
	}
	if !current.UniqueIndex() {
		return nil, fmt.Errorf("index in the sheet is not unique")
	}
	if err := sameColumns(current.Columns, desired.Columns); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		columns = current.Columns
	} else {
		for _, col := range columns {
			if !contains(current.Columns, col) {
				return nil, fmt.Errorf("column %q not present in the sheet", col)
			}
		}
	}

	plan := &Plan{}
	for _, ind := range desired.Index() {
		if !current.Has(ind) {
			plan.Add = append(plan.Add, ind)
			continue
		}
		for _, col := range columns {
			cur, _ := current.Get(ind, col)
			des, _ := desired.Get(ind, col)
			if overwrite {
				if !equalCell(cur, des) {
					plan.Updates = append(plan.Updates, CellChange{Index: ind, Column: col, Value: des})
				}
			} else if emptyCell(cur) && !emptyCell(des) {
				plan.Updates = append(plan.Updates, CellChange{Index: ind, Column: col, Value: des})
			}
		}
	}
	if overwrite {
		for _, ind := range current.Index() {
			if !desired.Has(ind) {
				plan.Remove = append(plan.Remove, ind)
			}
		}
	}
	return plan, nil
}

func sameColumns(sheet, updating []string) error {
	var sheetOnly, frameOnly []string
	for _, col := range sheet {
		if !contains(updating, col) {
			sheetOnly = append(sheetOnly, col)
		}
	}
	for _, col := range updating {
		if !contains(sheet, col) {
			frameOnly = append(frameOnly, col)
		}
	}
	if len(sheetOnly) > 0 || len(frameOnly) > 0 {
		return fmt.Errorf("columns in the sheet and the updating frame do not match (sheet only: %v, frame only: %v)",
			sheetOnly, frameOnly)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// equalCell compares cell values with numeric types unified, so an
// integer read back from a sheet matches the float that produced it.
func equalCell(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func emptyCell(v any) bool {
	return v == nil || v == ""
}
