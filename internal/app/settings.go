package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// Store keys of the settings documents.
const (
	settingsKey   = "settings"
	categoriesKey = "categories"
)

// DefaultLanguage is used until a preference is saved.
const DefaultLanguage = "en"

// Settings are the club preferences.
type Settings struct {
	Language string `json:"language" validate:"oneof=en es ca"`
	// Emblem is an opaque image reference, typically a data URL.
	Emblem string `json:"emblem"`
}

var validate = validator.New()

// GetSettings returns the saved preferences or the defaults.
func (s *Service) GetSettings(ctx context.Context) (Settings, error) {
	out := Settings{Language: DefaultLanguage}
	if _, err := repository.GetJSON(ctx, s.kv, settingsKey, &out); err != nil {
		return Settings{}, err
	}
	if out.Language == "" {
		out.Language = DefaultLanguage
	}
	return out, nil
}

// UpdateSettings validates and saves the preferences.
func (s *Service) UpdateSettings(ctx context.Context, in Settings) (Settings, error) {
	if in.Language == "" {
		in.Language = DefaultLanguage
	}
	if err := validate.Struct(in); err != nil {
		return Settings{}, model.WrapKind("service.settings", model.ErrValidation, err)
	}
	if err := repository.PutJSON(ctx, s.kv, settingsKey, in); err != nil {
		return Settings{}, err
	}
	return in, nil
}

// Categories returns the saved category list.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := repository.GetJSON(ctx, s.kv, categoriesKey, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// AddCategory appends a trimmed category name. Adding an existing name
// leaves the list unchanged.
func (s *Service) AddCategory(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.WrapKind("service.add_category", model.ErrValidation, fmt.Errorf("category name is empty"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if slices.Contains(cats, name) {
		return cats, nil
	}
	cats = append(cats, name)
	if err := repository.PutJSON(ctx, s.kv, categoriesKey, cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// RemoveCategory deletes a category name.
func (s *Service) RemoveCategory(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.Index(cats, strings.TrimSpace(name))
	if i < 0 {
		return nil, model.WrapKind("service.remove_category", model.ErrNotFound, fmt.Errorf("category %q", name))
	}
	cats = slices.Delete(cats, i, i+1)
	if err := repository.PutJSON(ctx, s.kv, categoriesKey, cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ClearData deletes every match and stops all clocks. Settings and
// categories are kept.
func (s *Service) ClearData(ctx context.Context) error {
	s.mu.Lock()
	err := s.kv.Delete(ctx, s.key)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.stopAllClocks()
	metrics.UpdateMatchCount(0)
	s.logger.Warn(ctx, "all match data cleared", logger.String("key", s.key))
	return nil
}
