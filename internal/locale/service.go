package locale

import (
	"context"
	"fmt"
	"strings"

	"frangapp/internal/settings"
)

type LanguageEntry struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Code     string `json:"code"`
	Selected bool   `json:"selected"`
}

type LanguageBlock struct {
	Values map[string]string `json:"values"`
	List   []LanguageEntry   `json:"list"`
}

type GoogleConfig struct {
	Enabled bool   `json:"enabled"`
	ID      string `json:"id"`
}

type SiteConfig struct {
	Logo       string       `json:"logo"`
	Google     GoogleConfig `json:"google"`
	StripeKey  string       `json:"stripe_key"`
	IonicIcons string       `json:"ionic_icons"`
}

// Bootstrap is everything a client needs to render its first screen.
type Bootstrap struct {
	Language LanguageBlock `json:"language"`
	Locale   string        `json:"locale"`
	Configs  SiteConfig    `json:"configs"`
}

type Service interface {
	GetBootstrapConfig(ctx context.Context, requested string) (*Bootstrap, error)
}

type service struct {
	catalog  *Catalog
	settings settings.Reader
	baseURL  string
}

func NewService(catalog *Catalog, reader settings.Reader, baseURL string) Service {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &service{catalog: catalog, settings: reader, baseURL: baseURL}
}

func (s *service) GetBootstrapConfig(ctx context.Context, requested string) (*Bootstrap, error) {
	code := requested
	if !s.catalog.Supports(code) {
		code = s.catalog.Resolve(requested, "")
	}

	list := make([]LanguageEntry, 0, len(s.catalog.languages))
	for _, l := range s.catalog.Languages() {
		list = append(list, LanguageEntry{
			Name:     l.Name,
			Image:    s.baseURL + "static/languages/" + l.Image,
			Code:     l.Code,
			Selected: l.Code == code,
		})
	}

	read := func(key string) (string, error) {
		v, err := s.settings.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("read setting %s: %w", key, err)
		}
		return v, nil
	}

	logo, err := read(settings.KeySiteLogo)
	if err != nil {
		return nil, err
	}
	googleEnabled, err := read(settings.KeyGoogleEnabled)
	if err != nil {
		return nil, err
	}
	googleID, err := read(settings.KeyGoogleID)
	if err != nil {
		return nil, err
	}
	stripeKey, err := read(settings.KeyStripePublishKey)
	if err != nil {
		return nil, err
	}
	icons, err := read(settings.KeyIonicIcons)
	if err != nil {
		return nil, err
	}

	return &Bootstrap{
		Language: LanguageBlock{
			Values: s.catalog.Values(code),
			List:   list,
		},
		Locale: code,
		Configs: SiteConfig{
			Logo:       s.baseURL + "static/" + logo,
			Google:     GoogleConfig{Enabled: truthy(googleEnabled), ID: googleID},
			StripeKey:  stripeKey,
			IonicIcons: icons,
		},
	}, nil
}

// truthy treats "", "0" and "false" as off, anything else as on.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false":
		return false
	}
	return true
}
