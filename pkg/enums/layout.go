package enums

import "fmt"

// ImagePosition places the image of a two-column block.
type ImagePosition string

const (
	ImagePositionLeft  ImagePosition = "left"
	ImagePositionRight ImagePosition = "right"
)

// IsValid reports whether the value is a known ImagePosition.
func (p ImagePosition) IsValid() bool {
	return p == ImagePositionLeft || p == ImagePositionRight
}

// OrDefault returns the position, falling back to right.
func (p ImagePosition) OrDefault() ImagePosition {
	if p == "" {
		return ImagePositionRight
	}
	return p
}

// BackgroundColor is the palette of section backgrounds.
type BackgroundColor string

const (
	BackgroundWhite     BackgroundColor = "white"
	BackgroundLightGray BackgroundColor = "light-gray"
	BackgroundDarkGreen BackgroundColor = "dark-green"
)

var validBackgroundColors = []BackgroundColor{
	BackgroundWhite,
	BackgroundLightGray,
	BackgroundDarkGreen,
}

// IsValid reports whether the value is a known BackgroundColor.
func (c BackgroundColor) IsValid() bool {
	for _, candidate := range validBackgroundColors {
		if candidate == c {
			return true
		}
	}
	return false
}

// OrDefault returns the colour, falling back to light gray.
func (c BackgroundColor) OrDefault() BackgroundColor {
	if c == "" {
		return BackgroundLightGray
	}
	return c
}

// FeatureIcon names the icon shown next to a feature.
type FeatureIcon string

const (
	FeatureIconHammer FeatureIcon = "Hammer"
	FeatureIconTruck  FeatureIcon = "Truck"
	FeatureIconRuler  FeatureIcon = "Ruler"
)

// IsValid reports whether the value is a known FeatureIcon.
func (i FeatureIcon) IsValid() bool {
	return i == FeatureIconHammer || i == FeatureIconTruck || i == FeatureIconRuler
}

// SocialIcon names a footer social network link.
type SocialIcon string

const (
	SocialIconFacebook  SocialIcon = "facebook"
	SocialIconInstagram SocialIcon = "instagram"
	SocialIconTwitter   SocialIcon = "twitter"
)

// IsValid reports whether the value is a known SocialIcon.
func (i SocialIcon) IsValid() bool {
	return i == SocialIconFacebook || i == SocialIconInstagram || i == SocialIconTwitter
}

// GlobalSlug identifies a singleton content document.
type GlobalSlug string

const (
	GlobalHeader      GlobalSlug = "header"
	GlobalFooter      GlobalSlug = "footer"
	GlobalLandingPage GlobalSlug = "landing-page"
)

// ParseGlobalSlug converts raw input into a GlobalSlug.
func ParseGlobalSlug(value string) (GlobalSlug, error) {
	switch GlobalSlug(value) {
	case GlobalHeader, GlobalFooter, GlobalLandingPage:
		return GlobalSlug(value), nil
	}
	return "", fmt.Errorf("invalid global %q", value)
}
