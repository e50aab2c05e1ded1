package backend

import (
	"fmt"
	"strings"

	"reimburse/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.InputBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid input backend in config: %s (valid: %s)",
			appConfig.InputBackend, strings.Join(GetBackendTypeStrings(), ", "))
	}

	return Config{
		Type:                backendType,
		InputPath:           appConfig.InputPath,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case XLSXBackend:
		if c.InputPath == "" {
			return fmt.Errorf("input path is required for xlsx backend")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{XLSXBackend, SheetsBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
