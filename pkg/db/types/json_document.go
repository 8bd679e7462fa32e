package dbtypes

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONDocument holds a raw JSON value stored in a jsonb (postgres) or text
// (sqlite) column.
type JSONDocument []byte

func (d *JSONDocument) Scan(src any) error {
	if src == nil {
		*d = nil
		return nil
	}

	switch v := src.(type) {
	case string:
		*d = JSONDocument(v)
	case []byte:
		*d = append(JSONDocument(nil), v...)
	default:
		return fmt.Errorf("JSONDocument: unsupported Scan type %T", src)
	}
	return nil
}

func (d JSONDocument) Value() (driver.Value, error) {
	if len(bytes.TrimSpace(d)) == 0 {
		return nil, nil
	}
	if !json.Valid(d) {
		return nil, fmt.Errorf("JSONDocument: invalid json")
	}
	return string(d), nil
}

func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(d)) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// Decode unmarshals the document into dest. An empty document leaves dest
// untouched.
func (d JSONDocument) Decode(dest any) error {
	if len(bytes.TrimSpace(d)) == 0 {
		return nil
	}
	return json.Unmarshal(d, dest)
}

// Encode builds a document from any JSON-marshalable value.
func Encode(v any) (JSONDocument, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSONDocument(raw), nil
}
