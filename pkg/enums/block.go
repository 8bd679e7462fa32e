package enums

import "fmt"

// BlockType identifies a CMS layout block variant.
type BlockType string

const (
	BlockTypeHero      BlockType = "hero"
	BlockTypeTwoColumn BlockType = "twoColumn"
	BlockTypeFeatures  BlockType = "features"
	BlockTypeRichText  BlockType = "richText"
	BlockTypeFAQ       BlockType = "faq"
	BlockTypeContact   BlockType = "contact"
)

var validBlockTypes = []BlockType{
	BlockTypeHero,
	BlockTypeTwoColumn,
	BlockTypeFeatures,
	BlockTypeRichText,
	BlockTypeFAQ,
	BlockTypeContact,
}

// String implements fmt.Stringer.
func (b BlockType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BlockType.
func (b BlockType) IsValid() bool {
	for _, candidate := range validBlockTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBlockType converts raw input into a BlockType.
func ParseBlockType(value string) (BlockType, error) {
	for _, candidate := range validBlockTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid block type %q", value)
}
