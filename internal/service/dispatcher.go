package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"report-mailer/internal/domain"
	apperrors "report-mailer/pkg/errors"
)

// templateData carries the variables the HTML body template may reference.
type templateData struct {
	CustomerName string
	CompanyName  string
	CalendarYear string
	CurrentYear  string
}

// DispatchEngine renders, sends and records the outcome for one artifact at
// a time. It performs exactly one attempt per artifact per run; artifacts in
// the failure directory are retried by moving them back to the output
// directory and re-running the send phase.
type DispatchEngine struct {
	sender   domain.MailSender
	template *template.Template
	config   domain.Config
	logger   domain.Logger
	dryRun   bool
}

// NewDispatchEngine loads the body template and wires the transport. An
// unreadable template is a fatal startup error. In dry-run mode sender may
// be nil; it is never invoked.
func NewDispatchEngine(sender domain.MailSender, config domain.Config, logger domain.Logger, dryRun bool) (*DispatchEngine, error) {
	tmpl, err := template.ParseFiles(config.GetTemplatePath())
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load email template", err.Error())
	}
	return &DispatchEngine{
		sender:   sender,
		template: tmpl,
		config:   config,
		logger:   logger,
		dryRun:   dryRun,
	}, nil
}

// Dispatch sends the artifact to the contact and relocates it to its
// terminal directory. All failures are captured in the result; Dispatch
// never returns an error, so one bad artifact cannot abort the batch.
func (d *DispatchEngine) Dispatch(ctx context.Context, contact *domain.ContactRecord, artifactPath string) domain.DispatchResult {
	result := domain.DispatchResult{
		ArtifactPath: artifactPath,
		Recipient:    contact.Email,
		Timestamp:    time.Now(),
	}

	body, err := d.renderBody(contact.Name)
	if err != nil {
		return d.fail(result, apperrors.NewDispatchError("failed to render email body", err))
	}

	recipient := contact.Email
	if redirect := d.config.GetTestRecipient(); redirect != "" {
		d.logger.Info("Test recipient redirect", "from", recipient, "to", redirect)
		recipient = redirect
	}
	result.Recipient = recipient

	if d.dryRun {
		result.Outcome = domain.OutcomeDryRun
		if err := d.relocate(artifactPath, d.config.GetDryRunDir()); err != nil {
			return d.fail(result, err)
		}
		d.logger.Info("Dry-run send", "recipient", recipient, "artifact", filepath.Base(artifactPath))
		return result
	}

	msg := &domain.MailMessage{
		To:             recipient,
		Subject:        d.subject(),
		HTMLBody:       body,
		AttachmentPath: artifactPath,
	}
	messageID, err := d.sender.Send(ctx, msg)
	if err != nil {
		return d.fail(result, apperrors.NewDispatchError("failed to send email", err))
	}

	result.Outcome = domain.OutcomeSent
	result.MessageID = messageID
	if err := d.relocate(artifactPath, d.config.GetSentSuccessDir()); err != nil {
		// delivered but stuck in the pending directory; surface as a failure
		// so the operator reconciles before a re-run double-sends
		return d.fail(result, err)
	}
	d.logger.Info("Email sent", "recipient", recipient,
		"artifact", filepath.Base(artifactPath), "message_id", messageID)
	return result
}

// MarkFailed relocates an artifact that failed before any send attempt
// (contact not found, no email on file) and records the reason.
func (d *DispatchEngine) MarkFailed(artifactPath string, reason error) domain.DispatchResult {
	result := domain.DispatchResult{
		ArtifactPath: artifactPath,
		Timestamp:    time.Now(),
	}
	return d.fail(result, reason)
}

func (d *DispatchEngine) fail(result domain.DispatchResult, reason error) domain.DispatchResult {
	result.Outcome = domain.OutcomeFailed
	result.ErrorDetail = reason.Error()
	if err := d.relocate(result.ArtifactPath, d.config.GetSentFailureDir()); err != nil {
		result.ErrorDetail = fmt.Sprintf("%s; relocation failed: %s", result.ErrorDetail, err)
	}
	d.logger.Error("Dispatch failed", reason, "artifact", filepath.Base(result.ArtifactPath))
	return result
}

func (d *DispatchEngine) relocate(artifactPath, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.Rename(artifactPath, filepath.Join(dir, filepath.Base(artifactPath)))
}

func (d *DispatchEngine) renderBody(customerName string) (string, error) {
	if customerName == "" {
		customerName = "Cliente"
	}
	var buf bytes.Buffer
	err := d.template.Execute(&buf, templateData{
		CustomerName: customerName,
		CompanyName:  d.config.GetCompanyName(),
		CalendarYear: d.config.GetCalendarYear(),
		CurrentYear:  fmt.Sprintf("%d", time.Now().Year()),
	})
	return buf.String(), err
}

func (d *DispatchEngine) subject() string {
	return fmt.Sprintf("Informe de Rendimentos %s — %s",
		d.config.GetCalendarYear(), d.config.GetCompanyName())
}
