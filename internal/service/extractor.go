package service

import (
	"regexp"
	"strings"

	"report-mailer/internal/domain"
)

// PatternRule matches one identifier shape in page text. Rules are applied
// in order; the first rule whose match survives normalization and Valid wins.
// Valid may be nil, in which case length alone is checked: income report
// sources embed pre-validated identifiers, so check-digit arithmetic is a
// policy choice, not a requirement.
type PatternRule struct {
	Kind    domain.IdentifierKind
	Pattern *regexp.Regexp
	Length  int
	Valid   func(digits string) bool
}

var (
	// Punctuated and bare forms share one pattern: every separator is optional.
	cpfPattern  = regexp.MustCompile(`\b\d{3}[.\s]?\d{3}[.\s]?\d{3}[-\s]?\d{2}\b`)
	cnpjPattern = regexp.MustCompile(`\b\d{2}[.\s]?\d{3}[.\s]?\d{3}[/\s]?\d{4}[-\s]?\d{2}\b`)

	nonDigits = regexp.MustCompile(`\D`)
)

// IdentifierExtractor recovers a CPF or CNPJ from page text. CPF rules come
// first: the source reports are predominantly individual filings.
type IdentifierExtractor struct {
	rules []PatternRule
}

// NewIdentifierExtractor builds the default rule list. With strict set,
// matches must also pass check-digit validation; callers are otherwise
// unaffected by the choice.
func NewIdentifierExtractor(strict bool) *IdentifierExtractor {
	var cpfValid, cnpjValid func(string) bool
	if strict {
		cpfValid = ValidCPF
		cnpjValid = ValidCNPJ
	}
	return &IdentifierExtractor{
		rules: []PatternRule{
			{Kind: domain.KindCPF, Pattern: cpfPattern, Length: domain.CPFLength, Valid: cpfValid},
			{Kind: domain.KindCNPJ, Pattern: cnpjPattern, Length: domain.CNPJLength, Valid: cnpjValid},
		},
	}
}

// Extract returns the first identifier found in text, or ok=false when no
// rule matches. Not finding an identifier is normal control flow, not an
// error: the splitter decides what an identifierless page means.
func (e *IdentifierExtractor) Extract(text string) (domain.Identifier, bool) {
	for _, rule := range e.rules {
		for _, match := range rule.Pattern.FindAllString(text, -1) {
			digits := NormalizeDigits(match)
			if len(digits) != rule.Length {
				continue
			}
			if rule.Valid != nil && !rule.Valid(digits) {
				continue
			}
			return domain.Identifier{Digits: digits, Kind: rule.Kind}, true
		}
	}
	return domain.Identifier{}, false
}

// NormalizeDigits strips every non-digit character.
func NormalizeDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidCPF runs the mod-11 check-digit validation for an 11-digit CPF.
func ValidCPF(digits string) bool {
	if len(digits) != domain.CPFLength || allSame(digits) {
		return false
	}
	d := toInts(digits)
	if d == nil {
		return false
	}
	for _, pos := range []int{9, 10} {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += d[i] * (pos + 1 - i)
		}
		check := 11 - sum%11
		if check >= 10 {
			check = 0
		}
		if d[pos] != check {
			return false
		}
	}
	return true
}

// ValidCNPJ runs the mod-11 check-digit validation for a 14-digit CNPJ.
func ValidCNPJ(digits string) bool {
	if len(digits) != domain.CNPJLength || allSame(digits) {
		return false
	}
	d := toInts(digits)
	if d == nil {
		return false
	}
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	for _, pos := range []int{12, 13} {
		sum := 0
		offset := len(weights) - pos
		for i := 0; i < pos; i++ {
			sum += d[i] * weights[offset+i]
		}
		check := 11 - sum%11
		if check >= 10 {
			check = 0
		}
		if d[pos] != check {
			return false
		}
	}
	return true
}

func toInts(digits string) []int {
	out := make([]int, len(digits))
	for i, r := range digits {
		if r < '0' || r > '9' {
			return nil
		}
		out[i] = int(r - '0')
	}
	return out
}

// allSame catches degenerate sequences like 00000000000, which satisfy the
// mod-11 arithmetic but are not issued registrations.
func allSame(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}
