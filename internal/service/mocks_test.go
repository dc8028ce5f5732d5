package service

import (
	"context"
	"path/filepath"

	"report-mailer/internal/domain"
)

// Mock implementations for testing

type testLogger struct{}

func (l *testLogger) Info(msg string, fields ...interface{})             {}
func (l *testLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *testLogger) Debug(msg string, fields ...interface{})            {}
func (l *testLogger) Warn(msg string, fields ...interface{})             {}

// testConfig implements domain.Config over a temp directory root.
type testConfig struct {
	root          string
	templatePath  string
	testRecipient string
	strict        bool
}

func (c *testConfig) GetInputDir() string                     { return filepath.Join(c.root, "input") }
func (c *testConfig) GetOutputDir() string                    { return filepath.Join(c.root, "output") }
func (c *testConfig) GetSentSuccessDir() string               { return filepath.Join(c.root, "sent", "success") }
func (c *testConfig) GetSentFailureDir() string               { return filepath.Join(c.root, "sent", "failure") }
func (c *testConfig) GetDryRunDir() string                    { return filepath.Join(c.root, "sent", "dry-run") }
func (c *testConfig) GetTemplatePath() string                 { return c.templatePath }
func (c *testConfig) GetCompanyName() string                  { return "ACME Pagamentos SA" }
func (c *testConfig) GetCalendarYear() string                 { return "2025" }
func (c *testConfig) GetSupabaseURL() string                  { return "" }
func (c *testConfig) GetSupabaseKey() string                  { return "" }
func (c *testConfig) GetContactsTable() string                { return "correntistas" }
func (c *testConfig) GetAWSRegion() string                    { return "sa-east-1" }
func (c *testConfig) GetAWSAccessKeyID() string               { return "" }
func (c *testConfig) GetAWSSecretAccessKey() string           { return "" }
func (c *testConfig) GetEmailFrom() string                    { return "noreply@example.com" }
func (c *testConfig) GetTestRecipient() string                { return c.testRecipient }
func (c *testConfig) StrictValidation() bool                  { return c.strict }
func (c *testConfig) GetLogLevel() string                     { return "error" }
func (c *testConfig) Validate(split, send, dryRun bool) error { return nil }

// mockSender records sent messages and can be made to fail per recipient.
type mockSender struct {
	sent    []domain.MailMessage
	failFor map[string]error
}

func (m *mockSender) Send(ctx context.Context, msg *domain.MailMessage) (string, error) {
	if err, ok := m.failFor[msg.To]; ok {
		return "", err
	}
	m.sent = append(m.sent, *msg)
	return "mock-message-id", nil
}

// mockResolver serves contacts from a map; missing identifiers return
// domain.ErrContactNotFound. Calls are counted per identifier.
type mockResolver struct {
	contacts map[string]*domain.ContactRecord
	calls    map[string]int
}

func newMockResolver(contacts map[string]*domain.ContactRecord) *mockResolver {
	return &mockResolver{contacts: contacts, calls: make(map[string]int)}
}

func (m *mockResolver) Resolve(ctx context.Context, identifier string) (*domain.ContactRecord, error) {
	m.calls[identifier]++
	if c, ok := m.contacts[identifier]; ok {
		return c, nil
	}
	return nil, domain.ErrContactNotFound
}

// mockSplitter returns canned results keyed by source path.
type mockSplitter struct {
	results map[string]*domain.SplitResult
	errs    map[string]error
	calls   []string
}

func (m *mockSplitter) Split(ctx context.Context, sourcePath string) (*domain.SplitResult, error) {
	m.calls = append(m.calls, sourcePath)
	if err, ok := m.errs[sourcePath]; ok {
		return nil, err
	}
	if res, ok := m.results[sourcePath]; ok {
		return res, nil
	}
	return &domain.SplitResult{}, nil
}
