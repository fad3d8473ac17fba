package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/mnemo/internal/errors"
)

// SettingsGetInput contains parameters for the SettingsGet operation.
type SettingsGetInput struct {
	Key string
}

// SettingsGetOutput contains a single setting value.
type SettingsGetOutput struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	// Set reports whether the value was explicitly configured rather
	// than defaulted.
	Set bool `json:"set"`
}

// SettingsGet returns the effective value for one setting key.
func SettingsGet(ctx context.Context, env *Env, input SettingsGetInput) (*SettingsGetOutput, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, errors.NewInvalidRequest("key is required")
	}

	value, set, err := env.Settings.Get(key)
	if err != nil {
		return nil, err
	}

	return &SettingsGetOutput{Key: key, Value: value, Set: set}, nil
}

// SettingsSetInput contains parameters for the SettingsSet operation.
type SettingsSetInput struct {
	Key   string
	Value any
}

// SettingsSetOutput echoes the persisted setting.
type SettingsSetOutput struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SettingsSet validates and persists one setting.
func SettingsSet(ctx context.Context, env *Env, input SettingsSetInput) (*SettingsSetOutput, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, errors.NewInvalidRequest("key is required")
	}
	if input.Value == nil {
		return nil, errors.NewInvalidRequest("value is required")
	}

	if err := env.Settings.Set(key, input.Value); err != nil {
		return nil, err
	}

	value, _, err := env.Settings.Get(key)
	if err != nil {
		return nil, err
	}

	return &SettingsSetOutput{Key: key, Value: value}, nil
}

// SettingsListOutput contains every known setting and its effective value.
type SettingsListOutput struct {
	Settings map[string]any `json:"settings"`
}

// SettingsList returns the effective value of every known setting,
// defaults included.
func SettingsList(ctx context.Context, env *Env) (*SettingsListOutput, error) {
	return &SettingsListOutput{Settings: env.Settings.All()}, nil
}

// SettingsResetOutput reports how many explicit settings were removed.
type SettingsResetOutput struct {
	Removed int `json:"removed"`
}

// SettingsReset deletes every explicit setting, restoring documented
// defaults. Learned per-category thresholds are cleared too.
func SettingsReset(ctx context.Context, env *Env) (*SettingsResetOutput, error) {
	removed, err := env.Settings.Reset()
	if err != nil {
		return nil, err
	}
	return &SettingsResetOutput{Removed: removed}, nil
}
