package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Report layouts
const (
	LayoutParty  = "party"  // one sheet per reimbursable party
	LayoutTotals = "totals" // a single Totals sheet
)

// Input backends
const (
	InputXLSX   = "xlsx"
	InputSheets = "sheets"
)

type Config struct {
	// Database
	SQLiteDBPath string

	// Input workbook
	InputBackend        string
	InputPath           string
	GoogleSpreadsheetID string
	Columns             Columns

	// Output workbook
	OutputPath   string
	ReportLayout string
	Locale       string
	Currency     string

	// Classification
	RulesFile string

	// AMQP notifications (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	LogLevel string
}

// Columns holds the letters of the positional input fields. Date is optional.
type Columns struct {
	Amount       string
	Type         string
	Category     string
	Label        string
	Reimbursable string
	Date         string
}

func Load() *Config {
	return &Config{
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/reimbursable.db"),

		InputBackend:        getEnv("INPUT_BACKEND", InputXLSX),
		InputPath:           getEnv("INPUT_PATH", "./input.xlsx"),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		Columns: Columns{
			Amount:       strings.ToUpper(getEnv("INPUT_AMOUNT_COLUMN", "D")),
			Type:         strings.ToUpper(getEnv("INPUT_TYPE_COLUMN", "E")),
			Category:     strings.ToUpper(getEnv("INPUT_CATEGORY_COLUMN", "F")),
			Label:        strings.ToUpper(getEnv("INPUT_LABEL_COLUMN", "H")),
			Reimbursable: strings.ToUpper(getEnv("INPUT_REIMBURSABLE_COLUMN", "J")),
			Date:         strings.ToUpper(getEnv("INPUT_DATE_COLUMN", "")),
		},

		OutputPath:   getEnv("OUTPUT_PATH", "./output.xlsx"),
		ReportLayout: getEnv("REPORT_LAYOUT", LayoutParty),
		Locale:       getEnv("LOCALE", "en-US"),
		Currency:     getEnv("CURRENCY", ""),

		RulesFile: getEnv("RULES_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "reimburse"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transactions_imported"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

var columnPattern = regexp.MustCompile(`^[A-Z]{1,3}$`)

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	switch c.InputBackend {
	case InputXLSX:
		if c.InputPath == "" {
			errors = append(errors, "input path is required when using xlsx input")
		} else if _, err := os.Stat(c.InputPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("input workbook does not exist: %s", c.InputPath))
		}
	case InputSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets input")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid input backend '%s': must be one of %v", c.InputBackend, []string{InputXLSX, InputSheets}))
	}

	required := map[string]string{
		"amount":       c.Columns.Amount,
		"type":         c.Columns.Type,
		"category":     c.Columns.Category,
		"label":        c.Columns.Label,
		"reimbursable": c.Columns.Reimbursable,
	}
	for _, field := range []string{"amount", "type", "category", "label", "reimbursable"} {
		if col := required[field]; !columnPattern.MatchString(col) {
			errors = append(errors, fmt.Sprintf("invalid %s column '%s': must be column letters", field, col))
		}
	}
	if c.Columns.Date != "" && !columnPattern.MatchString(c.Columns.Date) {
		errors = append(errors, fmt.Sprintf("invalid date column '%s': must be column letters", c.Columns.Date))
	}

	if c.OutputPath == "" {
		errors = append(errors, "output path cannot be empty")
	} else if dir := filepath.Dir(c.OutputPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("output directory does not exist: %s", dir))
		}
	}

	if !slices.Contains([]string{LayoutParty, LayoutTotals}, c.ReportLayout) {
		errors = append(errors, fmt.Sprintf("invalid report layout '%s': must be one of %v", c.ReportLayout, []string{LayoutParty, LayoutTotals}))
	}

	if _, err := language.Parse(c.Locale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}

	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("rules file does not exist: %s", c.RulesFile))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
