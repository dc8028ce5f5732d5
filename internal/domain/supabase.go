package domain

import "github.com/supabase-community/supabase-go"

// SupabaseClient wraps the Supabase connection used for contact lookups.
type SupabaseClient interface {
	Initialize() error
	DB() *supabase.Client
}
