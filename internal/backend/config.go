package backend

import (
	"fmt"
	"strings"

	"finsight/internal/config"
)

// FromAppConfig converts the application config to source config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	sourceType := SourceType(appConfig.DataBackend)
	if !sourceType.IsValid() {
		return Config{}, fmt.Errorf("invalid data backend in config: %s (valid: %s)",
			appConfig.DataBackend, strings.Join(SourceTypeStrings(), ", "))
	}

	return Config{
		Type:    sourceType,
		DBPath:  appConfig.DBPath,
		SeedDir: appConfig.MemorySeedDir,
	}, nil
}

// Validate validates the source configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid source type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteSource:
		if c.DBPath == "" {
			return fmt.Errorf("database path is required for the sqlite source")
		}

	case MemorySource:
		// SeedDir falls back to "data" in the factory; an absent seed file
		// just means an empty store.
	}

	return nil
}

// SourceTypes returns all valid source types
func SourceTypes() []SourceType {
	return []SourceType{SQLiteSource, MemorySource}
}

// SourceTypeStrings returns all valid source type strings
func SourceTypeStrings() []string {
	types := SourceTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
