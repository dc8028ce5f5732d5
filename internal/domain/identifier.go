package domain

// IdentifierKind distinguishes the two Brazilian taxpayer registries.
type IdentifierKind string

const (
	KindCPF  IdentifierKind = "CPF"
	KindCNPJ IdentifierKind = "CNPJ"
)

// Identifier is a validated CPF or CNPJ in normalized form: digits only,
// 11 for CPF and 14 for CNPJ. The zero value means "no identifier".
type Identifier struct {
	Digits string         `json:"digits"`
	Kind   IdentifierKind `json:"kind"`
}

func (id Identifier) String() string {
	return id.Digits
}

// IsZero reports whether no identifier was extracted.
func (id Identifier) IsZero() bool {
	return id.Digits == ""
}

// CPFLength and CNPJLength are the normalized digit counts.
const (
	CPFLength  = 11
	CNPJLength = 14
)
