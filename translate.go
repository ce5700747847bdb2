package linux_installer

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/cloudfoundry/jibber_jabber"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

const (
	DefaultLanguage string = "en"
	displayKey             = "_language_display"
)

var languageFileRegexp = regexp.MustCompile(`(?:^|.*/)([^/]+)\.ya?ml$`)

// Translator looks up the installer's user-facing messages in the language files from
// the resources box.
type Translator struct {
	language    string
	langStrings map[string]StringMap
	variables   StringMap
}

// NewTranslatorVar returns a Translator with a variable lookup. It scans for any yaml
// files inside the languages folder in the resources box and picks the language that
// best matches the system locale.
func NewTranslatorVar(variables StringMap) (*Translator, error) {
	languageFiles, err := GetResourceFiltered("languages", languageFileRegexp)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "cannot load language files")
	}
	languages := make(map[string]StringMap)
	for filename, content := range languageFiles {
		languageTag := languageFileRegexp.ReplaceAllString(filename, "$1")
		langStrings := make(StringMap)
		err := yaml.Unmarshal([]byte(content), langStrings)
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("Unable to parse language file")
			continue
		}
		languages[languageTag] = langStrings
	}
	t := Translator{
		langStrings: languages,
		variables:   variables,
	}
	if err := t.SetLanguage(t.getLocale()); err != nil {
		if err := t.SetLanguage(DefaultLanguage); err != nil {
			return nil, WrapError(err, ErrConfig, "no usable language")
		}
	}
	return &t, nil
}

// Get returns the localized string for a given string key.
//
// The strings may contain template references to variables, which in turn may contain
// template references back to message strings. Only one round-trip of string ->
// variable -> string lookup is performed.
func (t *Translator) Get(key string) string {
	return t.Expand(t.getRaw(key, t.language))
}

// Format returns the localized string for key, expanded with the translator's
// variables and the given extra variables. Extra variables take precedence.
func (t *Translator) Format(key string, extra StringMap) string {
	variables := MergeVariables(t.expandedVariables(t.language), extra)
	return ExpandVariables(t.getRaw(key, t.language), variables)
}

// GetLanguage returns the identifier (e.g. "en") for the current language.
func (t *Translator) GetLanguage() string { return t.language }

// GetLanguages returns a list of identifiers for all available languages. The default
// language (if it has strings available) will be the first in the list, the rest is
// sorted alphabetically.
func (t *Translator) GetLanguages() (languages []string) {
	hasDefault := false
	for lang := range t.langStrings {
		if lang != DefaultLanguage {
			languages = append(languages, lang)
		} else {
			hasDefault = true
		}
	}
	sort.Strings(languages)
	if hasDefault {
		languages = append([]string{DefaultLanguage}, languages...)
	}
	return languages
}

// GetLanguageDisplay returns the human-readable name of a language, in that language.
func (t *Translator) GetLanguageDisplay(language string) string {
	return t.getRaw(displayKey, language)
}

// SetLanguage given a language code string (e.g.: "en"), sets the translator's
// language.
func (t *Translator) SetLanguage(language string) error {
	if _, ok := t.langStrings[language]; !ok {
		return fmt.Errorf("no language '%s'", language)
	}
	t.language = language
	return nil
}

// getLocale returns the current system locale, as a language code string (e.g.:
// "en").
func (t *Translator) getLocale() string {
	languageTags := []language.Tag{language.Raw.Make(DefaultLanguage)}
	for languageTag := range t.langStrings {
		if languageTag != DefaultLanguage && languageTag != "" {
			languageTags = append(languageTags, language.Raw.Make(languageTag))
		}
	}
	locale, _ := jibber_jabber.DetectIETF()
	match, _, _ := language.NewMatcher(languageTags).Match(language.Make(locale))
	base, _ := match.Base()
	return base.String()
}

// Expand expands template variables in the given str (if any) with the translator's
// current language's strings.
func (t *Translator) Expand(str string) string { return t.expand(str, t.language) }

// expand expands template variables in the given str (if any) with the translator's
// strings for the given language. If the default language isn't available either,
// then an empty string is returned.
func (t *Translator) expand(str, language string) string {
	if _, ok := t.langStrings[DefaultLanguage]; !ok {
		return ""
	}
	return ExpandVariables(str, t.expandedVariables(language))
}

// expandedVariables returns the translator's variables, with templates in their values
// expanded against the strings of the given language.
func (t *Translator) expandedVariables(language string) StringMap {
	availableLanguage := language
	if _, ok := t.langStrings[language]; !ok {
		availableLanguage = DefaultLanguage
	}
	variables := make(StringMap)
	for key, value := range t.variables {
		variables[key] = ExpandVariables(value, t.langStrings[availableLanguage])
	}
	return variables
}

// getRaw returns a localized string for a given string key in a given language, without
// template expansion. If the language doesn't have strings available, then the default
// language is tried. If that fails as well, an empty string is returned.
func (t *Translator) getRaw(key, language string) string {
	if langStrings, ok := t.langStrings[language]; ok {
		if value, ok := langStrings[key]; ok {
			return value
		}
	}
	if langStrings, ok := t.langStrings[DefaultLanguage]; ok {
		if value, ok := langStrings[key]; ok {
			return value
		}
	}
	return ""
}
