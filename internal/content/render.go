package content

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/angelmondragon/carpenter-backend/pkg/enums"
)

var backgroundClasses = map[enums.BackgroundColor]string{
	enums.BackgroundWhite:     "bg-white",
	enums.BackgroundLightGray: "bg-gray-100",
	enums.BackgroundDarkGreen: "bg-dark-green",
}

type formField struct {
	Name     string
	Label    string
	Kind     string
	Required bool
}

var contactFields = []formField{
	{Name: "name", Label: "Name", Kind: "text", Required: true},
	{Name: "email", Label: "Email", Kind: "email", Required: true},
	{Name: "phone", Label: "Phone", Kind: "tel"},
	{Name: "subject", Label: "Subject", Kind: "text", Required: true},
}

// RenderBlock renders one layout block. Every block type is handled here;
// adding a type without a case is a programming error.
func RenderBlock(b Block) templ.Component {
	switch v := b.(type) {
	case *HeroBlock:
		return hero(v)
	case *TwoColumnBlock:
		return twoColumn(v)
	case *FeaturesBlock:
		return features(v)
	case *RichTextBlock:
		if len(v.Content) == 0 {
			return templ.NopComponent
		}
		doc, err := ParseRichText(v.Content)
		if err != nil {
			return failed(err)
		}
		return richTextBlock(doc)
	case *FAQBlock:
		return faq(v)
	case *ContactBlock:
		return contactForm(v)
	default:
		return failed(fmt.Errorf("content: no renderer for block %T", b))
	}
}

// RenderLayout renders blocks in order.
func RenderLayout(layout Layout) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, b := range layout {
			if err := RenderBlock(b).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func failed(err error) templ.Component {
	return templ.ComponentFunc(func(context.Context, io.Writer) error {
		return err
	})
}

func backgroundClass(c enums.BackgroundColor) string {
	return backgroundClasses[c.OrDefault()]
}

func altText(ref MediaRef, fallback string) string {
	if ref.Doc.Alt != nil && *ref.Doc.Alt != "" {
		return *ref.Doc.Alt
	}
	return fallback
}

func pageTitle(page *PageDTO, header *Header) string {
	if header == nil {
		return page.Title
	}
	return page.Title + " | " + header.LogoText
}
