package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	usersAllCacheKey = "users_all"
)

type Contrast string

const (
	ContrastNormal Contrast = "normal"
	ContrastHigh   Contrast = "high"
)

type Spacing string

const (
	SpacingCompact  Spacing = "compact"
	SpacingNormal   Spacing = "normal"
	SpacingSpacious Spacing = "spacious"
)

type FontSize string

const (
	FontSizeSmall  FontSize = "small"
	FontSizeNormal FontSize = "normal"
	FontSizeLarge  FontSize = "large"
)

var ErrInvalidPreferences = errors.New("invalid style preferences")

// StylePreferences holds accessibility settings. Unset fields are omitted, so an empty
// value is encoded as {}.
type StylePreferences struct {
	FocusMode    *bool     `json:"focusMode,omitempty"`
	Contrast     *Contrast `json:"contrast,omitempty"`
	Spacing      *Spacing  `json:"spacing,omitempty"`
	FontSize     *FontSize `json:"fontSize,omitempty"`
	ASDMode      *bool     `json:"teaMode,omitempty"`
	DyslexiaMode *bool     `json:"dyslexiaMode,omitempty"`
}

func (p StylePreferences) Validate() error {
	if p.Contrast != nil {
		switch *p.Contrast {
		case ContrastNormal, ContrastHigh:
		default:
			return fmt.Errorf("%w: contrast %q", ErrInvalidPreferences, *p.Contrast)
		}
	}

	if p.Spacing != nil {
		switch *p.Spacing {
		case SpacingCompact, SpacingNormal, SpacingSpacious:
		default:
			return fmt.Errorf("%w: spacing %q", ErrInvalidPreferences, *p.Spacing)
		}
	}

	if p.FontSize != nil {
		switch *p.FontSize {
		case FontSizeSmall, FontSizeNormal, FontSizeLarge:
		default:
			return fmt.Errorf("%w: font size %q", ErrInvalidPreferences, *p.FontSize)
		}
	}

	return nil
}

type Profile struct {
	ID               string            `json:"id"`
	UserName         string            `json:"userName"`
	CreatedAt        time.Time         `json:"createdAt"`
	StylePreferences *StylePreferences `json:"stylePreferences,omitempty"`
}

// preferences never returns nil.
func (p *Profile) preferences() StylePreferences {
	if p.StylePreferences == nil {
		return StylePreferences{}
	}

	return *p.StylePreferences
}

// Record is the layout of a profile in the remote store.
type Record struct {
	Nome             string           `json:"nome"`
	DataCriacao      string           `json:"dataCriacao,omitempty"`
	StylePreferences StylePreferences `json:"stylePreferences"`
}

func newRecord(p *Profile) Record {
	return Record{
		Nome:             p.UserName,
		DataCriacao:      p.CreatedAt.Format(time.RFC3339Nano),
		StylePreferences: p.preferences(),
	}
}

// updateFields is the merge patch for an existing record. dataCriacao is never part of it.
func updateFields(p *Profile) map[string]any {
	return map[string]any{
		"nome":             p.UserName,
		"stylePreferences": p.preferences(),
	}
}

// toProfile keeps a zero CreatedAt when the stored date is missing or unreadable.
func (r Record) toProfile(id string) *Profile {
	var createdAt time.Time
	if r.DataCriacao != "" {
		parsed, err := time.Parse(time.RFC3339Nano, r.DataCriacao)
		if err != nil {
			log.Warn().Err(err).Msgf("profile #%s has unreadable creation date", id)
		} else {
			createdAt = parsed
		}
	}

	prefs := r.StylePreferences

	return &Profile{
		ID:               id,
		UserName:         r.Nome,
		CreatedAt:        createdAt,
		StylePreferences: &prefs,
	}
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user_%s", id)
}
