// internal/domain/settings/settings.go
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

// SiteSettings is the editable branding and contact record
type SiteSettings struct {
	SiteName        string `json:"siteName" yaml:"siteName" validate:"required,max=100"`
	HeroTitle       string `json:"heroTitle" yaml:"heroTitle" validate:"max=200"`
	HeroSubtitle    string `json:"heroSubtitle" yaml:"heroSubtitle" validate:"max=500"`
	ContactEmail    string `json:"contactEmail" yaml:"contactEmail" validate:"required,email"`
	WhatsAppNumber  string `json:"whatsappNumber" yaml:"whatsappNumber" validate:"phone"`
	InstagramHandle string `json:"instagramHandle" yaml:"instagramHandle" validate:"max=60"`
}

// Defaults are the built-in values used until an admin saves settings
func Defaults() SiteSettings {
	return SiteSettings{
		SiteName:        "Wouhouch Hub",
		HeroTitle:       "PUSH YOUR LIMITS",
		HeroSubtitle:    "Expert coaching, powerful events, and premium gear.",
		ContactEmail:    "wouhouchteam@gmail.com",
		WhatsAppNumber:  "+216 26 630 102",
		InstagramHandle: "@wouhouch_hub",
	}
}

// LoadDefaults returns the built-in defaults overridden by the fields set in
// the YAML file at path. An empty path means built-ins only.
func LoadDefaults(path string) (SiteSettings, error) {
	defaults := Defaults()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("failed to read site settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return Defaults(), fmt.Errorf("failed to parse site settings file: %w", err)
	}

	if err := validation.Struct(defaults); err != nil {
		return Defaults(), fmt.Errorf("invalid site settings file: %w", err)
	}
	return defaults, nil
}

// Store holds the site settings in the shared site namespace
type Store struct {
	mu       sync.RWMutex
	current  SiteSettings
	defaults SiteSettings
	storage  *localstore.Storage
	log      logrus.FieldLogger
}

// NewStore loads saved settings, falling back to defaults when none or corrupt
func NewStore(ctx context.Context, storage *localstore.Storage, defaults SiteSettings, log logrus.FieldLogger) *Store {
	s := &Store{
		current:  defaults,
		defaults: defaults,
		storage:  storage,
		log:      log.WithField("component", "settings"),
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	raw, ok, err := s.storage.GetItem(ctx, localstore.KeySiteSettings)
	if err != nil {
		s.log.WithError(err).Warn("Failed to load settings")
		return
	}
	stored := s.defaults
	if ok {
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			s.log.WithError(err).Warn("Discarding corrupt settings payload")
			stored = s.defaults
		}
	}

	s.mu.Lock()
	s.current = stored
	s.mu.Unlock()
}

// Reload re-reads the stored settings, picking up edits made through other instances
func (s *Store) Reload(ctx context.Context) SiteSettings {
	s.load(ctx)
	return s.Get()
}

// Get returns the current settings
func (s *Store) Get() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates and writes settings through to storage
func (s *Store) Update(ctx context.Context, next SiteSettings) (SiteSettings, error) {
	if err := validation.Struct(next); err != nil {
		return s.Get(), err
	}

	payload, err := json.Marshal(next)
	if err != nil {
		return s.Get(), fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := s.storage.SetItem(ctx, localstore.KeySiteSettings, string(payload)); err != nil {
		return s.Get(), fmt.Errorf("failed to save settings: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return next, nil
}

// Reset restores the defaults and forgets the saved record
func (s *Store) Reset(ctx context.Context) (SiteSettings, error) {
	if err := s.storage.RemoveItem(ctx, localstore.KeySiteSettings); err != nil {
		return s.Get(), fmt.Errorf("failed to reset settings: %w", err)
	}

	s.mu.Lock()
	s.current = s.defaults
	s.mu.Unlock()
	return s.defaults, nil
}
