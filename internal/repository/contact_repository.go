package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"report-mailer/internal/domain"
)

// SupabaseContactRepository implements domain.ContactResolver against the
// contacts table. Rows are keyed by the normalized identifier (digits only,
// the same form the splitter writes into artifact names).
type SupabaseContactRepository struct {
	supabaseClient domain.SupabaseClient
	table          string
	logger         domain.Logger
}

// NewSupabaseContactRepository creates a new Supabase contact repository
func NewSupabaseContactRepository(supabaseClient domain.SupabaseClient, config domain.Config, logger domain.Logger) domain.ContactResolver {
	return &SupabaseContactRepository{
		supabaseClient: supabaseClient,
		table:          config.GetContactsTable(),
		logger:         logger,
	}
}

// Resolve looks up name and email for one identifier. A missing row maps to
// domain.ErrContactNotFound and a row without an email address to
// domain.ErrNoEmailOnFile; both are recoverable per artifact.
func (r *SupabaseContactRepository) Resolve(ctx context.Context, identifier string) (*domain.ContactRecord, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(r.table).
		Select("nome,email", "", false).
		Eq("inscricao", identifier).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}

	var rows []struct {
		Nome  string `json:"nome"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(rows) == 0 {
		return nil, domain.ErrContactNotFound
	}
	if rows[0].Email == "" {
		return nil, domain.ErrNoEmailOnFile
	}

	return &domain.ContactRecord{
		Identifier: identifier,
		Name:       rows[0].Nome,
		Email:      rows[0].Email,
	}, nil
}
