package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"report-mailer/internal/domain"
	apperrors "report-mailer/pkg/errors"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	InputDir     string
	OutputDir    string
	SentDir      string
	TemplatePath string

	SupabaseURL   string
	SupabaseKey   string
	ContactsTable string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	EmailFrom          string
	TestRecipient      string

	CompanyName  string
	CalendarYear string

	Strict   bool
	LogLevel string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		InputDir:     getEnvOrDefault("INPUT_DIR", "./input"),
		OutputDir:    getEnvOrDefault("OUTPUT_DIR", "./output"),
		SentDir:      getEnvOrDefault("SENT_DIR", "./sent"),
		TemplatePath: getEnvOrDefault("TEMPLATE_PATH", "./templates/informe.html"),

		SupabaseURL:   getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:   getEnvOrDefault("SUPABASE_SERVICE_KEY", ""),
		ContactsTable: getEnvOrDefault("CONTACTS_TABLE", "correntistas"),

		AWSRegion:          getEnvOrDefault("AWS_REGION", "sa-east-1"),
		AWSAccessKeyID:     getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
		EmailFrom:          getEnvOrDefault("EMAIL_FROM", ""),
		TestRecipient:      getEnvOrDefault("TEST_RECIPIENT", ""),

		CompanyName:  getEnvOrDefault("COMPANY_NAME", "CLARO PAY INSTITUICAO DE PAGAMENTO SA"),
		CalendarYear: getEnvOrDefault("CALENDAR_YEAR", "2025"),

		Strict:   getEnvBoolOrDefault("STRICT_VALIDATION", false),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// Validate checks that every setting the requested phases need is present.
// It reports all missing keys at once so a misconfigured deployment is
// fixed in one pass.
func (c *AppConfig) Validate(split, send, dryRun bool) error {
	var missing []string
	if send {
		if c.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.SupabaseKey == "" {
			missing = append(missing, "SUPABASE_SERVICE_KEY")
		}
		if !dryRun {
			if c.AWSAccessKeyID == "" {
				missing = append(missing, "AWS_ACCESS_KEY_ID")
			}
			if c.AWSSecretAccessKey == "" {
				missing = append(missing, "AWS_SECRET_ACCESS_KEY")
			}
			if c.EmailFrom == "" {
				missing = append(missing, "EMAIL_FROM")
			}
		}
	}
	if len(missing) > 0 {
		return apperrors.NewConfigError("missing required settings", strings.Join(missing, ", "))
	}
	return nil
}

// GetInputDir returns the source PDF directory
func (c *AppConfig) GetInputDir() string {
	return c.InputDir
}

// GetOutputDir returns the pending artifact directory
func (c *AppConfig) GetOutputDir() string {
	return c.OutputDir
}

// GetSentSuccessDir returns the terminal directory for sent artifacts
func (c *AppConfig) GetSentSuccessDir() string {
	return filepath.Join(c.SentDir, "success")
}

// GetSentFailureDir returns the terminal directory for failed artifacts
func (c *AppConfig) GetSentFailureDir() string {
	return filepath.Join(c.SentDir, "failure")
}

// GetDryRunDir returns the terminal directory for simulated sends
func (c *AppConfig) GetDryRunDir() string {
	return filepath.Join(c.SentDir, "dry-run")
}

// GetTemplatePath returns the email body template path
func (c *AppConfig) GetTemplatePath() string {
	return c.TemplatePath
}

// GetCompanyName returns the company name used in the email
func (c *AppConfig) GetCompanyName() string {
	return c.CompanyName
}

// GetCalendarYear returns the report calendar year
func (c *AppConfig) GetCalendarYear() string {
	return c.CalendarYear
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase service key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetContactsTable returns the contacts table name
func (c *AppConfig) GetContactsTable() string {
	return c.ContactsTable
}

// GetAWSRegion returns the SES region
func (c *AppConfig) GetAWSRegion() string {
	return c.AWSRegion
}

// GetAWSAccessKeyID returns the AWS access key
func (c *AppConfig) GetAWSAccessKeyID() string {
	return c.AWSAccessKeyID
}

// GetAWSSecretAccessKey returns the AWS secret key
func (c *AppConfig) GetAWSSecretAccessKey() string {
	return c.AWSSecretAccessKey
}

// GetEmailFrom returns the sender address
func (c *AppConfig) GetEmailFrom() string {
	return c.EmailFrom
}

// GetTestRecipient returns the redirect-all-mail address, empty when unset
func (c *AppConfig) GetTestRecipient() string {
	return c.TestRecipient
}

// StrictValidation reports whether identifier check digits are enforced
func (c *AppConfig) StrictValidation() bool {
	return c.Strict
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
