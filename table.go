package pvt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Table holds tabular trajectory data as named columns of optional values.
// Column roles are recognised from their names: a name containing "time"
// (case-insensitive) is the time column, names containing "pos" are position
// columns, and names containing "vel" are velocity columns. Position and
// velocity columns are paired with axes in the order they appear.
type Table struct {
	names   []string
	columns [][]Option[float64]
}

// ParseTable builds a table from a header row and data records. Empty cells
// become unset values.
func ParseTable(header []string, records [][]string) (*Table, error) {
	t := &Table{
		names:   append([]string(nil), header...),
		columns: make([][]Option[float64], len(header)),
	}
	for i := range t.columns {
		t.columns[i] = make([]Option[float64], len(records))
	}
	for r, record := range records {
		if len(record) != len(header) {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"record %d has %d fields, header has %d", r, len(record), len(header))
		}
		for c, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "record %d, column %q", r, header[c])
			}
			t.columns[c][r] = Some(v)
		}
	}
	return t, nil
}

// Names returns the column names.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

func columnRole(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "time"):
		return "time"
	case strings.Contains(name, "pos"):
		return "pos"
	case strings.Contains(name, "vel"):
		return "vel"
	default:
		return ""
	}
}

// Input converts the table into a generation input. The time column and all
// position columns must be fully specified or entirely empty; velocity
// columns may have gaps. A column whose name matches no role is an error.
func (t *Table) Input() (Input, error) {
	var in Input
	var velColumns [][]Option[float64]
	for c, name := range t.names {
		col := t.columns[c]
		switch columnRole(name) {
		case "time":
			if in.Times != nil {
				return Input{}, errors.Wrapf(ErrInvalidCombination, "multiple time columns")
			}
			times, ok := unwrapColumn(col)
			if !ok {
				if !columnEmpty(col) {
					return Input{}, errors.Wrapf(ErrMissingParameter,
						"time column %q is partially specified", name)
				}
				continue
			}
			in.Times = times
		case "pos":
			pos, ok := unwrapColumn(col)
			if !ok {
				if !columnEmpty(col) {
					return Input{}, errors.Wrapf(ErrMissingParameter,
						"position column %q is partially specified", name)
				}
				continue
			}
			in.Positions = append(in.Positions, pos)
		case "vel":
			velColumns = append(velColumns, col)
		default:
			return Input{}, errors.Wrapf(ErrInvalidCombination, "unrecognised column %q", name)
		}
	}
	// Drop velocity columns entirely when none carry a value, so that the
	// position regimes see them as absent.
	for _, col := range velColumns {
		if !columnEmpty(col) {
			in.Velocities = velColumns
			break
		}
	}
	if in.Positions != nil && in.Velocities != nil && len(in.Velocities) != len(in.Positions) {
		return Input{}, errors.Wrapf(ErrDimensionMismatch,
			"%d position columns but %d velocity columns", len(in.Positions), len(in.Velocities))
	}
	return in, nil
}

// Records renders the table back into string records, one per row, with
// unset values as empty fields.
func (t *Table) Records() [][]string {
	records := make([][]string, t.Len())
	for r := range records {
		record := make([]string, len(t.columns))
		for c := range t.columns {
			if v := t.columns[c][r]; v.Valid {
				record[c] = strconv.FormatFloat(v.Value, 'g', -1, 64)
			}
		}
		records[r] = record
	}
	return records
}

func unwrapColumn(col []Option[float64]) ([]float64, bool) {
	out := make([]float64, len(col))
	for i, v := range col {
		if !v.Valid {
			return nil, false
		}
		out[i] = v.Value
	}
	return out, true
}

func columnEmpty(col []Option[float64]) bool {
	for _, v := range col {
		if v.Valid {
			return false
		}
	}
	return true
}

// Table exports the sequence as a fully specified table: the time column
// followed by a position and velocity column pair per axis.
func (s *Sequence) Table() *Table {
	dim := s.Dim()
	names := make([]string, 0, 1+2*dim)
	names = append(names, "Time")
	for d := range dim {
		names = append(names,
			fmt.Sprintf("Axis %d Position", d+1),
			fmt.Sprintf("Axis %d Velocity", d+1))
	}
	columns := make([][]Option[float64], len(names))
	for i := range columns {
		columns[i] = make([]Option[float64], len(s.points))
	}
	for r, pt := range s.points {
		columns[0][r] = Some(pt.Time)
		for d := range dim {
			columns[1+2*d][r] = Some(pt.Position[d])
			columns[2+2*d][r] = Some(pt.Velocity[d])
		}
	}
	return &Table{names: names, columns: columns}
}
