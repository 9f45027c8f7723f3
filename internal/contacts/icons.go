// Package contacts resolves participant and group icons for shortcuts.
package contacts

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"msgcore/internal/models"
)

// DefaultPalette holds the letter avatar background colors.
var DefaultPalette = []string{
	"#e57373", "#f06292", "#ba68c8", "#9575cd", "#7986cb",
	"#64b5f6", "#4fc3f7", "#4dd0e1", "#4db6ac", "#81c784",
	"#aed581", "#ff8a65", "#d4e157", "#ffd54f", "#ffb74d",
	"#a1887f", "#90a4ae",
}

// Resolver turns participants and titles into icon descriptors.
type Resolver struct {
	palette []string
}

// NewResolver creates a resolver using palette, or DefaultPalette when empty.
func NewResolver(palette []string) *Resolver {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Resolver{palette: palette}
}

// ResolveIcon returns the participant's photo when known, otherwise a letter
// avatar colored by name.
func (r *Resolver) ResolveIcon(p models.Participant) models.Icon {
	if p.PhotoURI != "" {
		return models.Icon{Kind: models.IconURI, URI: p.PhotoURI}
	}
	label := p.Name
	if label == "" && len(p.PhoneNumbers) > 0 {
		label = p.PhoneNumbers[0]
	}
	return models.Icon{
		Kind:   models.IconLetter,
		Letter: initial(label),
		Color:  r.colorFor(label),
	}
}

// ColoredGroupIcon returns the group icon tinted by a color derived from title.
func (r *Resolver) ColoredGroupIcon(title string) models.Icon {
	return models.Icon{Kind: models.IconGroup, Color: r.colorFor(title)}
}

// Person resolves a participant into a shortcut person.
func (r *Resolver) Person(p models.Participant) models.Person {
	key := ""
	if p.ContactID != 0 {
		key = strconv.FormatInt(p.ContactID, 10)
	} else if len(p.PhoneNumbers) > 0 {
		key = "tel:" + p.PhoneNumbers[0]
	}
	name := p.Name
	if name == "" && len(p.PhoneNumbers) > 0 {
		name = p.PhoneNumbers[0]
	}
	return models.Person{Key: key, Name: name, Icon: r.ResolveIcon(p)}
}

func (r *Resolver) colorFor(s string) string {
	h := int(JavaHashCode(s))
	if h < 0 {
		h = -h
	}
	if h < 0 {
		h = 0
	}
	return r.palette[h%len(r.palette)]
}

// JavaHashCode computes the 31-based hash over UTF-16 code units that the
// messaging app uses to pick avatar colors, so colors stay stable across
// clients.
func JavaHashCode(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}

func initial(label string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(label))
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return strings.ToUpper(string(r))
	}
	return "#"
}
