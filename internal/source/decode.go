package source

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/shopspring/decimal"
)

// ErrMissingColumn is wrapped when a header lacks a column a record needs.
var ErrMissingColumn = errors.New("missing column")

var decimalType = reflect.TypeOf(decimal.Decimal{})

// fieldBinding ties one struct field to one CSV column.
type fieldBinding struct {
	field  int
	column string
	pos    int
}

// bindColumns resolves every csv-tagged field of t against the header.
// All missing columns are reported together.
func bindColumns(t reflect.Type, table string, idx HeaderIndex) ([]fieldBinding, error) {
	var (
		bindings []fieldBinding
		missing  []error
	)
	for i := 0; i < t.NumField(); i++ {
		col := t.Field(i).Tag.Get("csv")
		if col == "" {
			continue
		}
		pos, ok := idx.Lookup(col)
		if !ok {
			missing = append(missing, fmt.Errorf("%s: %w %q", table, ErrMissingColumn, col))
			continue
		}
		bindings = append(bindings, fieldBinding{field: i, column: col, pos: pos})
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}
	return bindings, nil
}

// decodeRecord fills the struct at v from record. row is the 1-based data row.
func decodeRecord(v reflect.Value, table string, row int, record []string, bindings []fieldBinding) error {
	for _, b := range bindings {
		var raw string
		if b.pos < len(record) {
			raw = CleanCell(record[b.pos])
		}
		if err := setField(v.Field(b.field), raw); err != nil {
			return &core.ParseError{Table: table, Column: b.column, Row: row, Value: raw, Err: err}
		}
	}
	return nil
}

// setField sets a reflect.Value from a cell based on its type.
func setField(field reflect.Value, value string) error {
	if field.Type() == decimalType {
		d, err := core.ParseDecimal(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		n, err := core.ParseInt(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
