package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/carpenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
)

const (
	DefaultFAQTitle     = "Frequently Asked Questions"
	DefaultContactTitle = "Send us a Message"
)

// Block is one section of a page layout. The set of implementations is
// closed; see the type switch in RenderBlock.
type Block interface {
	Type() enums.BlockType
	validate() error
	mediaRefs() []*MediaRef
	meta() *BlockMeta
}

// BlockMeta carries the fields shared by every block.
type BlockMeta struct {
	ID        string          `json:"id,omitempty"`
	BlockName string          `json:"blockName,omitempty"`
	BlockType enums.BlockType `json:"blockType"`
}

func (m *BlockMeta) meta() *BlockMeta { return m }

type HeroBlock struct {
	BlockMeta
	Title string   `json:"title"`
	Text  *string  `json:"text,omitempty"`
	Image MediaRef `json:"image"`
}

type TwoColumnBlock struct {
	BlockMeta
	Title           string                `json:"title"`
	Text            *string               `json:"text,omitempty"`
	Image           MediaRef              `json:"image"`
	ImagePosition   enums.ImagePosition   `json:"imagePosition"`
	BackgroundColor enums.BackgroundColor `json:"backgroundColor"`
}

type Feature struct {
	Icon        enums.FeatureIcon `json:"icon"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
}

type FeaturesBlock struct {
	BlockMeta
	Features         []Feature `json:"features"`
	DisableAnimation bool      `json:"disableAnimation"`
}

// RichTextBlock keeps the editor document verbatim; it is only parsed for
// rendering.
type RichTextBlock struct {
	BlockMeta
	Content json.RawMessage `json:"content,omitempty"`
}

type FAQItem struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQBlock struct {
	BlockMeta
	Title string    `json:"title"`
	FAQs  []FAQItem `json:"faqs"`
}

type ContactBlock struct {
	BlockMeta
	Title string `json:"title"`
}

func (*HeroBlock) Type() enums.BlockType      { return enums.BlockTypeHero }
func (*TwoColumnBlock) Type() enums.BlockType { return enums.BlockTypeTwoColumn }
func (*FeaturesBlock) Type() enums.BlockType  { return enums.BlockTypeFeatures }
func (*RichTextBlock) Type() enums.BlockType  { return enums.BlockTypeRichText }
func (*FAQBlock) Type() enums.BlockType       { return enums.BlockTypeFAQ }
func (*ContactBlock) Type() enums.BlockType   { return enums.BlockTypeContact }

func (b *HeroBlock) validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return invalidBlock(b, "title is required")
	}
	if b.Image.IsZero() {
		return invalidBlock(b, "image is required")
	}
	return nil
}

func (b *TwoColumnBlock) validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return invalidBlock(b, "title is required")
	}
	if b.Image.IsZero() {
		return invalidBlock(b, "image is required")
	}
	if b.ImagePosition != "" && !b.ImagePosition.IsValid() {
		return invalidBlock(b, "imagePosition must be left or right")
	}
	if b.BackgroundColor != "" && !b.BackgroundColor.IsValid() {
		return invalidBlock(b, "backgroundColor must be white, light-gray or dark-green")
	}
	return nil
}

func (b *FeaturesBlock) validate() error {
	for i, f := range b.Features {
		if !f.Icon.IsValid() {
			return invalidBlock(b, fmt.Sprintf("features[%d].icon must be Hammer, Truck or Ruler", i))
		}
		if strings.TrimSpace(f.Title) == "" {
			return invalidBlock(b, fmt.Sprintf("features[%d].title is required", i))
		}
	}
	return nil
}

func (b *RichTextBlock) validate() error {
	if len(b.Content) == 0 {
		return nil
	}
	if _, err := ParseRichText(b.Content); err != nil {
		return invalidBlock(b, err.Error())
	}
	return nil
}

func (b *FAQBlock) validate() error {
	for i, f := range b.FAQs {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			return invalidBlock(b, fmt.Sprintf("faqs[%d] needs a question and an answer", i))
		}
	}
	return nil
}

func (b *ContactBlock) validate() error { return nil }

func (b *HeroBlock) mediaRefs() []*MediaRef      { return []*MediaRef{&b.Image} }
func (b *TwoColumnBlock) mediaRefs() []*MediaRef { return []*MediaRef{&b.Image} }
func (b *FeaturesBlock) mediaRefs() []*MediaRef  { return nil }
func (b *RichTextBlock) mediaRefs() []*MediaRef  { return nil }
func (b *FAQBlock) mediaRefs() []*MediaRef       { return nil }
func (b *ContactBlock) mediaRefs() []*MediaRef   { return nil }

// applyDefaults fills the values editors may leave unset.
func applyDefaults(b Block) {
	switch v := b.(type) {
	case *TwoColumnBlock:
		v.ImagePosition = v.ImagePosition.OrDefault()
		v.BackgroundColor = v.BackgroundColor.OrDefault()
	case *FAQBlock:
		if strings.TrimSpace(v.Title) == "" {
			v.Title = DefaultFAQTitle
		}
	case *ContactBlock:
		if strings.TrimSpace(v.Title) == "" {
			v.Title = DefaultContactTitle
		}
	}
}

func invalidBlock(b Block, msg string) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "%s block: %s", b.Type(), msg)
}

// Layout is the ordered list of blocks on a page.
type Layout []Block

// UnmarshalJSON dispatches each element on its blockType. Unknown types are
// rejected.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("layout must be an array: %w", err)
	}
	out := make(Layout, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			BlockType string `json:"blockType"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("layout[%d]: %w", i, err)
		}
		kind, err := enums.ParseBlockType(head.BlockType)
		if err != nil {
			return fmt.Errorf("layout[%d]: %w", i, err)
		}
		block := newBlock(kind)
		if err := json.Unmarshal(raw, block); err != nil {
			return fmt.Errorf("layout[%d] (%s): %w", i, kind, err)
		}
		applyDefaults(block)
		out = append(out, block)
	}
	*l = out
	return nil
}

func (l Layout) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	for _, b := range l {
		b.meta().BlockType = b.Type()
	}
	return json.Marshal([]Block(l))
}

// Validate checks every block and returns the first problem found.
func (l Layout) Validate() error {
	for _, b := range l {
		if err := b.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (l Layout) mediaRefs() []*MediaRef {
	var refs []*MediaRef
	for _, b := range l {
		refs = append(refs, b.mediaRefs()...)
	}
	return refs
}

func newBlock(kind enums.BlockType) Block {
	meta := BlockMeta{BlockType: kind}
	switch kind {
	case enums.BlockTypeHero:
		return &HeroBlock{BlockMeta: meta}
	case enums.BlockTypeTwoColumn:
		return &TwoColumnBlock{BlockMeta: meta}
	case enums.BlockTypeFeatures:
		return &FeaturesBlock{BlockMeta: meta}
	case enums.BlockTypeRichText:
		return &RichTextBlock{BlockMeta: meta}
	case enums.BlockTypeFAQ:
		return &FAQBlock{BlockMeta: meta}
	case enums.BlockTypeContact:
		return &ContactBlock{BlockMeta: meta}
	}
	panic(fmt.Sprintf("content: unhandled block type %q", kind))
}
