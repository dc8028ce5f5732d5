package domain

// ContactRecord is the externally sourced recipient data for one taxpayer.
// Read-only from the pipeline's perspective.
type ContactRecord struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}
