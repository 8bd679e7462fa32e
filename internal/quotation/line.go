package quotation

import (
	"fmt"
	"strings"

	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
)

// ProductRef is the slice of a catalog product a quotation line carries.
type ProductRef struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// SelectedDimensions are the options a customer picked. Any of them may be
// empty when the product does not offer that dimension.
type SelectedDimensions struct {
	Thickness string `json:"thickness,omitempty"`
	Width     string `json:"width,omitempty"`
	Height    string `json:"height,omitempty"`
}

// Text renders the dimensions the way quotation emails print them.
func (d SelectedDimensions) Text() string {
	if d.Thickness == "" && d.Width == "" && d.Height == "" {
		return "N/A"
	}
	return fmt.Sprintf("W: %s″, H: %s″, T: %smm", orNA(d.Width), orNA(d.Height), orNA(d.Thickness))
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

// Line is one product and dimension combination in a quotation cart.
type Line struct {
	CartID             string             `json:"cartId"`
	Product            ProductRef         `json:"product"`
	SelectedDimensions SelectedDimensions `json:"selectedDimensions"`
	Quantity           int                `json:"quantity"`
}

// LineID builds the identity key of a line. Two additions with the same key
// merge into one line.
func LineID(productID uint, dims SelectedDimensions) string {
	return fmt.Sprintf("%d-%s-%s-%s", productID, dims.Thickness, dims.Width, dims.Height)
}

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	Items []Line `json:"items"`
}

// DefaultSelection fills every dimension the customer left empty with the
// first option the product offers.
func DefaultSelection(offered dbtypes.Dimensions, sel SelectedDimensions) SelectedDimensions {
	first := func(opts []dbtypes.DimensionOption, picked string) string {
		if picked != "" || len(opts) == 0 {
			return picked
		}
		return opts[0].Value
	}
	sel.Thickness = first(offered.Thickness, sel.Thickness)
	sel.Width = first(offered.Width, sel.Width)
	sel.Height = first(offered.Height, sel.Height)
	return sel
}
