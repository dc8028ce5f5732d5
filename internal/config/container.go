package config

import (
	"context"

	"report-mailer/internal/domain"
	"report-mailer/internal/mail"
	"report-mailer/internal/repository"
	"report-mailer/internal/service"
	"report-mailer/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config       domain.Config
	Logger       domain.Logger
	Splitter     domain.Splitter
	Resolver     domain.ContactResolver
	Dispatcher   domain.Dispatcher
	Orchestrator *service.Orchestrator
}

// NewContainer creates a new dependency injection container. Settings are
// validated up front, and only the collaborators the requested phases need
// are constructed: a split-only run never touches Supabase or SES.
func NewContainer(ctx context.Context, split, send, dryRun bool) (*Container, error) {
	config := NewConfig()
	if err := config.Validate(split, send, dryRun); err != nil {
		return nil, err
	}
	appLogger := logger.NewLogger(config.GetLogLevel())

	extractor := service.NewIdentifierExtractor(config.StrictValidation())
	splitter := service.NewPDFSplitter(extractor, config, appLogger)

	c := &Container{
		Config:   config,
		Logger:   appLogger,
		Splitter: splitter,
	}

	if send {
		supabaseClient := repository.NewSupabaseClient(config, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			return nil, err
		}
		contactRepo := repository.NewSupabaseContactRepository(supabaseClient, config, appLogger)
		c.Resolver = repository.NewMemoizingResolver(contactRepo)

		var sender domain.MailSender
		if !dryRun {
			sesSender, err := mail.NewSESSender(ctx, config, appLogger)
			if err != nil {
				return nil, err
			}
			sender = sesSender
		}

		dispatcher, err := service.NewDispatchEngine(sender, config, appLogger, dryRun)
		if err != nil {
			return nil, err
		}
		c.Dispatcher = dispatcher
	}

	c.Orchestrator = service.NewOrchestrator(c.Splitter, c.Resolver, c.Dispatcher, config, appLogger)
	return c, nil
}
