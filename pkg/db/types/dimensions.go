package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DimensionOption is one selectable size, e.g. "40" (mm) or "36" (inches).
type DimensionOption struct {
	Value string `json:"value"`
}

// Dimensions lists the sizes a product is offered in. Thickness is in
// millimetres, width and height in inches.
type Dimensions struct {
	Thickness []DimensionOption `json:"thickness"`
	Width     []DimensionOption `json:"width"`
	Height    []DimensionOption `json:"height"`
}

// Offers reports whether value is one of the options (an empty value always
// matches, since a selection may leave an axis unset).
func Offers(options []DimensionOption, value string) bool {
	if value == "" {
		return true
	}
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func (d *Dimensions) Scan(src any) error {
	if src == nil {
		*d = Dimensions{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("Dimensions: unsupported Scan type %T", src)
	}
	if len(raw) == 0 {
		*d = Dimensions{}
		return nil
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return fmt.Errorf("Dimensions: %w", err)
	}
	return nil
}

func (d Dimensions) Value() (driver.Value, error) {
	normalized := Dimensions{
		Thickness: nonNil(d.Thickness),
		Width:     nonNil(d.Width),
		Height:    nonNil(d.Height),
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func nonNil(opts []DimensionOption) []DimensionOption {
	if opts == nil {
		return []DimensionOption{}
	}
	return opts
}
