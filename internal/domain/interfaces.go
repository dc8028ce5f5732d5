package domain

import "context"

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management. Settings are
// read once at startup; core logic never consults the environment directly.
type Config interface {
	GetInputDir() string
	GetOutputDir() string
	GetSentSuccessDir() string
	GetSentFailureDir() string
	GetDryRunDir() string

	GetTemplatePath() string
	GetCompanyName() string
	GetCalendarYear() string

	GetSupabaseURL() string
	GetSupabaseKey() string
	GetContactsTable() string

	GetAWSRegion() string
	GetAWSAccessKeyID() string
	GetAWSSecretAccessKey() string
	GetEmailFrom() string
	GetTestRecipient() string

	StrictValidation() bool
	GetLogLevel() string

	// Validate checks that every setting the requested phases need is
	// present. A non-nil error is fatal to the run.
	Validate(split, send, dryRun bool) error
}

// Splitter partitions one source PDF into per-identifier artifacts.
type Splitter interface {
	Split(ctx context.Context, sourcePath string) (*SplitResult, error)
}

// ContactResolver maps a normalized identifier to its recipient record.
// ErrContactNotFound and ErrNoEmailOnFile are recoverable per artifact.
type ContactResolver interface {
	Resolve(ctx context.Context, identifier string) (*ContactRecord, error)
}

// MailMessage is the transport-level payload for one recipient.
type MailMessage struct {
	To             string
	Subject        string
	HTMLBody       string
	AttachmentPath string
}

// MailSender delivers one message and returns the transport message ID.
type MailSender interface {
	Send(ctx context.Context, msg *MailMessage) (string, error)
}

// Dispatcher sends one artifact to one recipient and relocates it to its
// terminal directory. MarkFailed relocates without attempting a send, for
// artifacts that failed before dispatch (e.g. contact resolution).
type Dispatcher interface {
	Dispatch(ctx context.Context, contact *ContactRecord, artifactPath string) DispatchResult
	MarkFailed(artifactPath string, reason error) DispatchResult
}
