package activity

import (
	"net/url"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

// classIDNone is the literal clients send for "no class selected".
const classIDNone = "null"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Filter narrows the logs a professor looks at. The zero Filter matches every log.
type Filter struct {
	ClassID    *int
	Search     string
	Category   string
	AlertsOnly bool
}

// ParseFilter reads the classId, search, category and showAlertsOnly query parameters.
// classId may be absent, the literal "null" or a number; anything else is a validation error.
// showAlertsOnly is only enabled by the exact value "true".
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter
	if raw := core.CleanString(q.Get("classId")); raw != "" && raw != classIDNone {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, core.NewValidationError(err, core.FieldError{Field: "classId", Error: "classId deve ser um número ou \"null\""})
		}
		f.ClassID = &id
	}
	f.Search = core.CleanString(q.Get("search"))
	f.Category = core.CleanString(q.Get("category"))
	f.AlertsOnly = q.Get("showAlertsOnly") == "true"
	return f, nil
}

// Values is the inverse of ParseFilter.
func (f Filter) Values() url.Values {
	q := make(url.Values)
	if f.ClassID != nil {
		q.Set("classId", strconv.Itoa(*f.ClassID))
	} else {
		q.Set("classId", classIDNone)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.AlertsOnly {
		q.Set("showAlertsOnly", "true")
	}
	return q
}

// Predicate is one condition of a Filter, expressed both as a parameter-bound SQL fragment over
// "logs l LEFT JOIN students s" and as a matcher over an in-memory Row.
type Predicate struct {
	Name  string
	Cond  sq.Sqlizer
	Match func(Row) bool
}

// Predicates returns one predicate per set field of f, in a fixed order: class, search, category, alerts.
func (f Filter) Predicates() []Predicate {
	preds := make([]Predicate, 0, 4)

	if f.ClassID != nil {
		classID := *f.ClassID
		preds = append(preds, Predicate{
			Name: "class",
			Cond: sq.Expr("s.id IN (SELECT student_id FROM class_students WHERE class_id = ?)", classID),
			Match: func(r Row) bool {
				return r.Student != nil && r.Student.InClass(classID)
			},
		})
	}

	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(f.Search) + "%"
		needle := strings.ToLower(f.Search)
		preds = append(preds, Predicate{
			Name: "search",
			Cond: sq.Or{
				sq.ILike{"s.full_name": pattern},
				sq.ILike{"s.cpf": pattern},
				sq.ILike{"s.pc_id": pattern},
			},
			Match: func(r Row) bool {
				if r.Student == nil {
					return false
				}
				s := r.Student
				return strings.Contains(strings.ToLower(s.FullName), needle) ||
					(s.CPF.Valid && strings.Contains(strings.ToLower(s.CPF.String), needle)) ||
					(s.PCID.Valid && strings.Contains(strings.ToLower(s.PCID.String), needle))
			},
		})
	}

	if f.Category != "" {
		category := f.Category
		preds = append(preds, Predicate{
			Name: "category",
			Cond: sq.Eq{"l.categoria": category},
			Match: func(r Row) bool {
				return r.Log.Category.Valid && r.Log.Category.String == category
			},
		})
	}

	if f.AlertsOnly {
		preds = append(preds, Predicate{
			Name: "alerts",
			Cond: sq.Eq{"l.categoria": AlertCategories()},
			Match: func(r Row) bool {
				return r.Log.IsAlert()
			},
		})
	}

	return preds
}

// Where ANDs the predicates into a single parameter-bound clause ("?" placeholders).
// It returns an empty clause when there is no predicate.
func Where(preds []Predicate) (string, []interface{}, error) {
	if len(preds) == 0 {
		return "", nil, nil
	}
	and := make(sq.And, 0, len(preds))
	for _, p := range preds {
		and = append(and, p.Cond)
	}
	return and.ToSql()
}

// MatchAll reports whether r satisfies every predicate.
func MatchAll(preds []Predicate, r Row) bool {
	for _, p := range preds {
		if !p.Match(r) {
			return false
		}
	}
	return true
}
