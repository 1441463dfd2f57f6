package utils

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DecodeTOMLFile decodes path into v. Keys absent from the file leave v as it
// was.
func DecodeTOMLFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// TOMLTables is a TOML document decoded without a schema. A mistyped key only
// spoils its own value instead of the whole document.
type TOMLTables map[string]any

// ReadTOMLTables decodes path without a schema.
func ReadTOMLTables(path string) (TOMLTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return TOMLTables(raw), nil
}

// Table returns the named table. A missing or non-table entry reads as empty.
func (t TOMLTables) Table(name string) TOMLTable {
	tbl, _ := t[name].(map[string]any)
	return tbl
}

// TOMLTable copies single values into typed destinations. Each method reports
// whether key held a value of the right type and leaves dst alone otherwise.
type TOMLTable map[string]any

func (t TOMLTable) Int(key string, dst *int) bool {
	v, ok := t[key].(int64)
	if ok {
		*dst = int(v)
	}
	return ok
}

func (t TOMLTable) Bool(key string, dst *bool) bool {
	v, ok := t[key].(bool)
	if ok {
		*dst = v
	}
	return ok
}

func (t TOMLTable) String(key string, dst *string) bool {
	v, ok := t[key].(string)
	if ok {
		*dst = v
	}
	return ok
}
