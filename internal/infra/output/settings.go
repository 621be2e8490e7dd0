// Where: cli/internal/infra/output/settings.go
// What: local.settings.json consistency checks.
// Why: Catch connection settings that will not resolve at runtime while the project is still building.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/domain/function"
	"github.com/poruru/fnsdk/cli/internal/meta"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

const httpTriggerType = "httpTrigger"

// settingKeys are the binding properties whose values name an app setting.
var settingKeys = []string{"connection", "apiKey", "accountSid", "authToken"}

// LocalSettings is the Values map of local.settings.json.
type LocalSettings struct {
	Values map[string]any `json:"Values"`
}

// LoadLocalSettings reads local.settings.json from the output root; nil when absent.
func LoadLocalSettings(outputRoot string) (*LocalSettings, error) {
	path := filepath.Join(outputRoot, meta.LocalSettingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", meta.LocalSettingsFile, err)
	}
	var settings LocalSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", meta.LocalSettingsFile, err)
	}
	return &settings, nil
}

// Has reports whether a setting name is defined, ignoring case.
func (s *LocalSettings) Has(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

func (s *LocalSettings) lookup(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	for key, value := range s.Values {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return nil, false
}

func (s *LocalSettings) hasStorage() bool {
	value, ok := s.lookup(meta.StorageSetting)
	if !ok {
		return false
	}
	str, isString := value.(string)
	return !isString || strings.TrimSpace(str) != ""
}

// Check warns about settings a function refers to that local.settings.json does not define.
func (s *LocalSettings) Check(schema *function.Schema, name string, logger ports.Logger) {
	if s == nil || schema == nil || logger == nil {
		return
	}
	if !s.hasStorage() && !schema.HasTrigger(httpTriggerType) {
		logger.Warn(fmt.Sprintf("Function [%s]: Missing value for %s in %s. This is required for all triggers other than HTTP.",
			name, meta.StorageSetting, meta.LocalSettingsFile))
	}
	for _, b := range schema.Bindings {
		for _, prop := range b.Properties {
			if !isSettingKey(prop.Key) {
				continue
			}
			setting, ok := prop.Value.(string)
			if !ok || strings.TrimSpace(setting) == "" || s.Has(setting) {
				continue
			}
			logger.Warn(fmt.Sprintf("Function [%s]: cannot find value named '%s' in %s that matches '%s' property set on '%s'",
				name, setting, meta.LocalSettingsFile, prop.Key, b.Type))
		}
	}
}

func isSettingKey(key string) bool {
	for _, candidate := range settingKeys {
		if strings.EqualFold(candidate, key) {
			return true
		}
	}
	return false
}
