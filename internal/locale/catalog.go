package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

//go:embed lang/*.json
var packFS embed.FS

// Language is one entry of the selectable locale list.
type Language struct {
	Name  string
	Image string
	Code  string
}

var languages = []Language{
	{Name: "English", Image: "en.png", Code: "en"},
	{Name: "Español", Image: "es.png", Code: "es"},
	{Name: "Français", Image: "fr.png", Code: "fr"},
	{Name: "Русский", Image: "ru.png", Code: "ru"},
}

// Catalog holds the supported languages and their string packs.
type Catalog struct {
	languages   []Language
	packs       map[string]map[string]string
	defaultCode string
	tags        []language.Tag
	matcher     language.Matcher
}

// NewCatalog loads the embedded language packs. defaultCode must be one of
// the supported codes.
func NewCatalog(defaultCode string) (*Catalog, error) {
	c := &Catalog{
		languages: languages,
		packs:     make(map[string]map[string]string, len(languages)),
	}

	for _, l := range languages {
		raw, err := packFS.ReadFile("lang/" + l.Code + ".json")
		if err != nil {
			return nil, fmt.Errorf("read language pack %s: %w", l.Code, err)
		}
		values := make(map[string]string)
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("parse language pack %s: %w", l.Code, err)
		}
		c.packs[l.Code] = values
	}

	defaultCode = strings.ToLower(strings.TrimSpace(defaultCode))
	if _, ok := c.packs[defaultCode]; !ok {
		return nil, fmt.Errorf("default locale %q is not supported", defaultCode)
	}
	c.defaultCode = defaultCode

	// The first tag is the matcher's fallback.
	c.tags = append(c.tags, language.Make(defaultCode))
	for _, l := range languages {
		if l.Code != defaultCode {
			c.tags = append(c.tags, language.Make(l.Code))
		}
	}
	c.matcher = language.NewMatcher(c.tags)

	return c, nil
}

func (c *Catalog) Default() string {
	return c.defaultCode
}

func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.languages))
	copy(out, c.languages)
	return out
}

func (c *Catalog) Supports(code string) bool {
	_, ok := c.packs[code]
	return ok
}

// Resolve picks the locale for a request: an explicit code wins when it
// matches a supported language, then the Accept-Language header, then the
// default.
func (c *Catalog) Resolve(requested, acceptLanguage string) string {
	if code, ok := c.match(requested); ok {
		return code
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			if code, ok := c.matchTags(tags...); ok {
				return code
			}
		}
	}
	return c.defaultCode
}

func (c *Catalog) match(requested string) (string, bool) {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested == "" {
		return "", false
	}
	if c.Supports(requested) {
		return requested, true
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return "", false
	}
	return c.matchTags(tag)
}

func (c *Catalog) matchTags(tags ...language.Tag) (string, bool) {
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	base, _ := c.tags[idx].Base()
	return base.String(), true
}

// Values returns the full string pack for code, falling back to the default
// pack for unsupported codes.
func (c *Catalog) Values(code string) map[string]string {
	pack, ok := c.packs[code]
	if !ok {
		pack = c.packs[c.defaultCode]
	}
	out := make(map[string]string, len(pack))
	for k, v := range pack {
		out[k] = v
	}
	return out
}

// T translates key for code. Missing keys fall back to the default pack and
// then to the key itself. Placeholders of the form {name} are replaced from
// args, given as name/value pairs.
func (c *Catalog) T(code, key string, args ...string) string {
	msg, ok := c.packs[code][key]
	if !ok {
		msg, ok = c.packs[c.defaultCode][key]
	}
	if !ok {
		msg = key
	}
	if len(args) < 2 {
		return msg
	}

	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
