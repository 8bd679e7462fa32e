package content

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/carpenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
)

const defaultCompanyName = "The Carpenter"

type NavLink struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

type Header struct {
	LogoText string    `json:"logoText"`
	NavLinks []NavLink `json:"navLinks"`
}

type FooterLink struct {
	LinkText string `json:"linkText"`
	Href     string `json:"href"`
}

type FooterSection struct {
	Title    string       `json:"title"`
	NavLinks []FooterLink `json:"navLinks"`
}

type SocialLink struct {
	Href string           `json:"href"`
	Icon enums.SocialIcon `json:"icon"`
}

type ContactLine struct {
	Text    string `json:"text"`
	IsEmail bool   `json:"isEmail"`
}

type Footer struct {
	CompanyName        string          `json:"companyName"`
	CompanyDescription *string         `json:"companyDescription,omitempty"`
	NavSections        []FooterSection `json:"navSections"`
	SocialLinks        []SocialLink    `json:"socialLinks"`
	Address            *string         `json:"address,omitempty"`
	WorkHours          *string         `json:"workHours,omitempty"`
	Contacts           []ContactLine   `json:"contacts"`
}

type CallToAction struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

type LandingHero struct {
	Title           string       `json:"title"`
	Subtitle        string       `json:"subtitle"`
	BackgroundImage MediaRef     `json:"backgroundImage"`
	CTA             CallToAction `json:"cta"`
}

type TwoColumnContent struct {
	Title      *string   `json:"title,omitempty"`
	Text       *string   `json:"text,omitempty"`
	ButtonText *string   `json:"buttonText,omitempty"`
	ButtonLink *string   `json:"buttonLink,omitempty"`
	Image      *MediaRef `json:"image,omitempty"`
}

type LandingPage struct {
	Hero             LandingHero      `json:"hero"`
	TwoColumnContent TwoColumnContent `json:"twoColumnContent"`
	FeaturedProducts []ProductRef     `json:"featuredProducts"`
}

// Global is implemented by the three singleton documents.
type Global interface {
	Slug() enums.GlobalSlug
	validate() error
	normalize()
	mediaRefs() []*MediaRef
}

func (*Header) Slug() enums.GlobalSlug      { return enums.GlobalHeader }
func (*Footer) Slug() enums.GlobalSlug      { return enums.GlobalFooter }
func (*LandingPage) Slug() enums.GlobalSlug { return enums.GlobalLandingPage }

func (h *Header) validate() error {
	for i, l := range h.NavLinks {
		if strings.TrimSpace(l.Text) == "" || strings.TrimSpace(l.Link) == "" {
			return invalidGlobal(h, fmt.Sprintf("navLinks[%d] needs text and link", i))
		}
	}
	return nil
}

func (f *Footer) validate() error {
	for i, s := range f.NavSections {
		if strings.TrimSpace(s.Title) == "" {
			return invalidGlobal(f, fmt.Sprintf("navSections[%d].title is required", i))
		}
		for j, l := range s.NavLinks {
			if strings.TrimSpace(l.LinkText) == "" || strings.TrimSpace(l.Href) == "" {
				return invalidGlobal(f, fmt.Sprintf("navSections[%d].navLinks[%d] needs linkText and href", i, j))
			}
		}
	}
	for i, s := range f.SocialLinks {
		if strings.TrimSpace(s.Href) == "" || !s.Icon.IsValid() {
			return invalidGlobal(f, fmt.Sprintf("socialLinks[%d] needs href and an icon of facebook, instagram or twitter", i))
		}
	}
	for i, c := range f.Contacts {
		if strings.TrimSpace(c.Text) == "" {
			return invalidGlobal(f, fmt.Sprintf("contacts[%d].text is required", i))
		}
	}
	return nil
}

func (l *LandingPage) validate() error {
	switch {
	case strings.TrimSpace(l.Hero.Title) == "":
		return invalidGlobal(l, "hero.title is required")
	case strings.TrimSpace(l.Hero.Subtitle) == "":
		return invalidGlobal(l, "hero.subtitle is required")
	case l.Hero.BackgroundImage.IsZero():
		return invalidGlobal(l, "hero.backgroundImage is required")
	case strings.TrimSpace(l.Hero.CTA.Text) == "" || strings.TrimSpace(l.Hero.CTA.Link) == "":
		return invalidGlobal(l, "hero.cta needs text and link")
	}
	for i, p := range l.FeaturedProducts {
		if p.IsZero() {
			return invalidGlobal(l, fmt.Sprintf("featuredProducts[%d] must be a product id", i))
		}
	}
	return nil
}

func (h *Header) normalize() {
	if strings.TrimSpace(h.LogoText) == "" {
		h.LogoText = defaultCompanyName
	}
	if h.NavLinks == nil {
		h.NavLinks = []NavLink{}
	}
}

func (f *Footer) normalize() {
	if strings.TrimSpace(f.CompanyName) == "" {
		f.CompanyName = defaultCompanyName
	}
	if f.NavSections == nil {
		f.NavSections = []FooterSection{}
	}
	if f.SocialLinks == nil {
		f.SocialLinks = []SocialLink{}
	}
	if f.Contacts == nil {
		f.Contacts = []ContactLine{}
	}
}

func (l *LandingPage) normalize() {
	if l.FeaturedProducts == nil {
		l.FeaturedProducts = []ProductRef{}
	}
}

func (h *Header) mediaRefs() []*MediaRef { return nil }
func (f *Footer) mediaRefs() []*MediaRef { return nil }

func (l *LandingPage) mediaRefs() []*MediaRef {
	refs := []*MediaRef{&l.Hero.BackgroundImage}
	if l.TwoColumnContent.Image != nil {
		refs = append(refs, l.TwoColumnContent.Image)
	}
	return refs
}

// newGlobal returns an empty document for slug.
func newGlobal(slug enums.GlobalSlug) Global {
	switch slug {
	case enums.GlobalHeader:
		return &Header{}
	case enums.GlobalFooter:
		return &Footer{}
	case enums.GlobalLandingPage:
		return &LandingPage{}
	}
	panic(fmt.Sprintf("content: unhandled global %q", slug))
}

func invalidGlobal(g Global, msg string) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "%s: %s", g.Slug(), msg)
}
