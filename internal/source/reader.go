package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
)

// ReadTable decodes a delimited table into records of type T. T must be a
// struct whose csv tags name its source columns. The first row is the
// header; row numbers in errors count data rows from 1.
func ReadTable[T any](r io.Reader, table string) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file, header row required", table)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", table, err)
	}

	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s: record type %s is not a struct", table, typ)
	}

	bindings, err := bindColumns(typ, table, MakeHeaderIndex(header))
	if err != nil {
		return nil, err
	}

	var out []T
	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: read row %d: %w", table, row, err)
		}

		var rec T
		if err := decodeRecord(reflect.ValueOf(&rec).Elem(), table, row, record, bindings); err != nil {
			return nil, err
		}
		if err := validateRecord(rec, table, row); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}
