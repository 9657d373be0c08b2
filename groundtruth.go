package jersey

import (
	"strconv"
	"strings"
)

// Deriver maps an image identifier to the jersey numbers it encodes.
// Datasets with a different naming convention supply their own.
type Deriver func(identifier string) []int

// TokenPolicy configures the delimiter-based filename convention.
type TokenPolicy struct {
	Primary   string // split delimiter
	Secondary string // rewritten to Primary before splitting
	MaxDigits int    // longest all-digit token accepted as a player number
}

// DefaultTokenPolicy is the "1125-8.jpg" convention: tokens separated by
// '-' or '.', player numbers are one or two digits.
var DefaultTokenPolicy = TokenPolicy{
	Primary:   ".",
	Secondary: "-",
	MaxDigits: 2,
}

// NewTokenDeriver returns a Deriver that splits the identifier on the
// policy's delimiters and keeps short all-digit tokens in order.
// Longer numeric tokens (ids, timestamps) and extensions are dropped,
// duplicates are kept.
func NewTokenDeriver(p TokenPolicy) Deriver {
	if p.Primary == "" {
		p.Primary = DefaultTokenPolicy.Primary
	}
	if p.MaxDigits <= 0 {
		p.MaxDigits = DefaultTokenPolicy.MaxDigits
	}

	return func(identifier string) []int {
		if p.Secondary != "" {
			identifier = strings.ReplaceAll(identifier, p.Secondary, p.Primary)
		}

		var truth []int
		for _, tok := range strings.Split(identifier, p.Primary) {
			if len(tok) == 0 || len(tok) > p.MaxDigits || !isDigits(tok) {
				continue
			}
			n, err := strconv.Atoi(tok)
			if err != nil {
				continue
			}
			truth = append(truth, n)
		}
		return truth
	}
}

var defaultDeriver = NewTokenDeriver(DefaultTokenPolicy)

// DeriveGroundTruth applies DefaultTokenPolicy to identifier.
func DeriveGroundTruth(identifier string) []int {
	return defaultDeriver(identifier)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
