package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"report-mailer/internal/domain"
)

const testTemplate = `<html><body>
<p>Olá, {{.CustomerName}}!</p>
<p>Informe de {{.CalendarYear}} — {{.CompanyName}}</p>
</body></html>`

func newDispatcherFixture(t *testing.T, sender domain.MailSender, dryRun bool) (*DispatchEngine, *testConfig) {
	t.Helper()
	cfg := &testConfig{root: t.TempDir()}
	cfg.templatePath = filepath.Join(cfg.root, "informe.html")
	if err := os.WriteFile(cfg.templatePath, []byte(testTemplate), 0o644); err != nil {
		t.Fatal(err)
	}
	engine, err := NewDispatchEngine(sender, cfg, &testLogger{}, dryRun)
	if err != nil {
		t.Fatalf("failed to build dispatcher: %v", err)
	}
	return engine, cfg
}

func writeArtifact(t *testing.T, cfg *testConfig, name string) string {
	t.Helper()
	if err := os.MkdirAll(cfg.GetOutputDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfg.GetOutputDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDispatchEngine_MissingTemplateIsFatal(t *testing.T) {
	cfg := &testConfig{root: t.TempDir(), templatePath: "/nonexistent/informe.html"}
	if _, err := NewDispatchEngine(&mockSender{}, cfg, &testLogger{}, false); err == nil {
		t.Fatal("expected an error for an unreachable template")
	}
}

func TestDispatch_SuccessRelocatesToSent(t *testing.T) {
	sender := &mockSender{}
	engine, cfg := newDispatcherFixture(t, sender, false)
	artifact := writeArtifact(t, cfg, "12345678909.pdf")

	contact := &domain.ContactRecord{Identifier: "12345678909", Name: "João Silva", Email: "joao@example.com"}
	result := engine.Dispatch(context.Background(), contact, artifact)

	if result.Outcome != domain.OutcomeSent {
		t.Fatalf("expected sent, got %s (%s)", result.Outcome, result.ErrorDetail)
	}
	if result.MessageID != "mock-message-id" {
		t.Fatalf("expected transport message id, got %q", result.MessageID)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "joao@example.com" {
		t.Fatalf("unexpected recipient %s", msg.To)
	}
	if !strings.Contains(msg.HTMLBody, "João Silva") {
		t.Fatal("rendered body should contain the customer name")
	}
	if !strings.Contains(msg.Subject, "2025") {
		t.Fatalf("subject should carry the calendar year, got %q", msg.Subject)
	}
	if msg.AttachmentPath != artifact {
		t.Fatalf("attachment should be the artifact, got %s", msg.AttachmentPath)
	}

	assertFileAt(t, filepath.Join(cfg.GetSentSuccessDir(), "12345678909.pdf"))
	assertFileGone(t, artifact)
}

func TestDispatch_SendFailureRelocatesToFailure(t *testing.T) {
	sender := &mockSender{failFor: map[string]error{"joao@example.com": errors.New("transport timeout")}}
	engine, cfg := newDispatcherFixture(t, sender, false)
	artifact := writeArtifact(t, cfg, "12345678909.pdf")

	contact := &domain.ContactRecord{Identifier: "12345678909", Name: "João", Email: "joao@example.com"}
	result := engine.Dispatch(context.Background(), contact, artifact)

	if result.Outcome != domain.OutcomeFailed {
		t.Fatalf("expected failed, got %s", result.Outcome)
	}
	if !strings.Contains(result.ErrorDetail, "transport timeout") {
		t.Fatalf("error detail should surface the cause, got %q", result.ErrorDetail)
	}
	assertFileAt(t, filepath.Join(cfg.GetSentFailureDir(), "12345678909.pdf"))
	assertFileGone(t, artifact)
}

func TestDispatch_DryRunNeverTouchesTransport(t *testing.T) {
	sender := &mockSender{}
	engine, cfg := newDispatcherFixture(t, sender, true)
	artifact := writeArtifact(t, cfg, "98765432100.pdf")

	contact := &domain.ContactRecord{Identifier: "98765432100", Name: "Maria", Email: "maria@example.com"}
	result := engine.Dispatch(context.Background(), contact, artifact)

	if result.Outcome != domain.OutcomeDryRun {
		t.Fatalf("expected dry-run outcome, got %s", result.Outcome)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("dry-run must not invoke the sender, got %d sends", len(sender.sent))
	}
	assertFileAt(t, filepath.Join(cfg.GetDryRunDir(), "98765432100.pdf"))
	assertFileGone(t, artifact)
}

func TestDispatch_TestRecipientRedirect(t *testing.T) {
	sender := &mockSender{}
	engine, cfg := newDispatcherFixture(t, sender, false)
	cfg.testRecipient = "qa@example.com"
	artifact := writeArtifact(t, cfg, "12345678909.pdf")

	contact := &domain.ContactRecord{Identifier: "12345678909", Name: "João", Email: "joao@example.com"}
	result := engine.Dispatch(context.Background(), contact, artifact)

	if result.Outcome != domain.OutcomeSent {
		t.Fatalf("expected sent, got %s", result.Outcome)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "qa@example.com" {
		t.Fatalf("expected redirect to qa@example.com, got %+v", sender.sent)
	}
	if result.Recipient != "qa@example.com" {
		t.Fatalf("result should record the actual recipient, got %s", result.Recipient)
	}
}

func TestMarkFailed_RelocatesWithoutSending(t *testing.T) {
	sender := &mockSender{}
	engine, cfg := newDispatcherFixture(t, sender, false)
	artifact := writeArtifact(t, cfg, "12345678000195.pdf")

	result := engine.MarkFailed(artifact, domain.ErrContactNotFound)

	if result.Outcome != domain.OutcomeFailed {
		t.Fatalf("expected failed, got %s", result.Outcome)
	}
	if !strings.Contains(result.ErrorDetail, "contact not found") {
		t.Fatalf("expected reason in detail, got %q", result.ErrorDetail)
	}
	if len(sender.sent) != 0 {
		t.Fatal("MarkFailed must not send")
	}
	assertFileAt(t, filepath.Join(cfg.GetSentFailureDir(), "12345678000195.pdf"))
}

func assertFileAt(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
}

func assertFileGone(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be gone, stat err=%v", path, err)
	}
}
