// Package i18n localizes screen titles, validation messages and runner labels.
//
// Messages live in embedded TOML files, one per language, keyed by stable IDs
// such as "route_form_a_title" or "invalid_length". Invalid outcomes are
// localized through their Code; any missing message falls back to the English
// text supplied by the caller.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/aretw0/formflow/pkg/domain"
)

//go:embed locales/*.toml
var locales embed.FS

// ErrUnsupportedLanguage is returned for a language with no message file.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var supported = []language.Tag{language.English, language.Japanese}

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
		for _, name := range []string{"locales/active.en.toml", "locales/active.ja.toml"} {
			if _, err := b.LoadMessageFileFS(locales, name); err != nil {
				bundleErr = fmt.Errorf("failed to load %s: %w", name, err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Supported returns the languages with a message file.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Translator resolves messages for one language.
// Safe for concurrent use.
type Translator struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

// New creates a translator for lang (a BCP 47 tag such as "en" or "ja-JP").
func New(lang string) (*Translator, error) {
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	_, idx, conf := language.NewMatcher(supported).Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	matched := supported[idx]
	return &Translator{
		tag:       matched,
		localizer: i18n.NewLocalizer(b, matched.String()),
	}, nil
}

// Default returns the English translator.
func Default() *Translator {
	t, err := New("en")
	if err != nil {
		panic(err)
	}
	return t
}

// Language returns the matched language.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// Text returns the message for id, or fallback when none exists.
func (t *Translator) Text(id, fallback string) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil && msg == "" {
		return fallback
	}
	return msg
}

// RouteTitle returns the localized navigation title of r.
func (t *Translator) RouteTitle(r domain.Route) string {
	return t.Text("route_"+r.String()+"_title", r.Title())
}

// ButtonTitle returns the localized label of buttons leading to r.
func (t *Translator) ButtonTitle(r domain.Route) string {
	return t.Text("route_"+r.String()+"_button", r.ButtonTitle())
}

// FlowTitle returns the localized title of f.
func (t *Translator) FlowTitle(f domain.Flow) string {
	return t.Text("flow_"+f.ID+"_title", f.Title)
}

// FlowDescription returns the localized description of f.
func (t *Translator) FlowDescription(f domain.Flow) string {
	return t.Text("flow_"+f.ID+"_description", f.Description)
}

// Outcome rewrites the message of an Invalid outcome using its Code.
// Other variants are returned unchanged.
func (t *Translator) Outcome(o domain.ValidationOutcome) domain.ValidationOutcome {
	inv, ok := o.(domain.Invalid)
	if !ok || inv.Code == "" {
		return o
	}
	inv.Message = t.Text("invalid_"+inv.Code, inv.Message)
	return inv
}

// Well-known message IDs with their English defaults.
const (
	MsgFatalForm    = "msg_fatal_form"
	MsgPreviewError = "msg_preview_error"
	MsgErrorDefault = "msg_error_default"
)

var defaults = map[string]string{
	MsgFatalForm:    "The entered password is invalid.\nPlease enter a different password.",
	MsgPreviewError: "An error occurred on the preview screen.\nPlease start over.",
	MsgErrorDefault: "An error occurred",
}

// Message returns one of the well-known messages (MsgFatalForm, ...).
func (t *Translator) Message(id string) string {
	return t.Text(id, defaults[id])
}
