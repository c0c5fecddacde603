package activity

import "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"

// Tier is an alert severity.
type Tier string

const (
	TierRed  Tier = "red"
	TierBlue Tier = "blue"
)

var (
	// category names are matched exactly, case included
	redCategories  = []string{"Rede Social", "Jogos", "Streaming", "Animes e Manga"}
	blueCategories = []string{"IA"}

	ErrInvalidTier = core.NewValidationError(nil, core.FieldError{Field: "type", Error: "Tipo de alerta inválido."})
)

// ParseTier accepts "red" or "blue".
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierRed, TierBlue:
		return Tier(s), nil
	}
	return "", ErrInvalidTier
}

// Categories returns the categories classified under the tier.
func (t Tier) Categories() []string {
	switch t {
	case TierRed:
		return append([]string(nil), redCategories...)
	case TierBlue:
		return append([]string(nil), blueCategories...)
	}
	return nil
}

// AlertCategories returns the union of every tier's categories.
func AlertCategories() []string {
	all := make([]string, 0, len(redCategories)+len(blueCategories))
	all = append(all, redCategories...)
	return append(all, blueCategories...)
}

// TierOf returns the tier of category, if any.
func TierOf(category string) (Tier, bool) {
	for _, c := range redCategories {
		if c == category {
			return TierRed, true
		}
	}
	for _, c := range blueCategories {
		if c == category {
			return TierBlue, true
		}
	}
	return "", false
}

func IsAlert(category string) bool {
	_, ok := TierOf(category)
	return ok
}
