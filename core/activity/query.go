package activity

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

// AlertsLimit caps the general alerts listing.
const AlertsLimit = 100

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	// a log joins every student whose cpf or pc_id equals its aluno_id
	logsJoin = "students s ON l.aluno_id = s.cpf OR l.aluno_id = s.pc_id"

	byTimestampDesc    = core.DBOrdering{Field: "l.timestamp", Ascending: false}
	byLastActivityDesc = core.DBOrdering{Field: "last_activity", Ascending: false}
)

func filtered(b sq.SelectBuilder, f Filter) sq.SelectBuilder {
	b = b.From("logs l").LeftJoin(logsJoin)
	for _, p := range f.Predicates() {
		b = b.Where(p.Cond)
	}
	return b
}

// LogsQuery selects the filtered logs, newest first.
func LogsQuery(f Filter) sq.SelectBuilder {
	return filtered(psql.Select(
		"l.id", "l.aluno_id", "l.url", "l.duration", "l.timestamp", "l.categoria", "s.full_name AS student_name",
	), f).OrderBy(byTimestampDesc.String())
}

// SummaryQuery aggregates the filtered logs per aluno_id and student name, most recent activity first.
func SummaryQuery(f Filter) sq.SelectBuilder {
	red, blue := TierRed.Categories(), TierBlue.Categories()
	return filtered(psql.Select(
		"s.full_name AS student_name",
		"l.aluno_id",
		"COALESCE(SUM(l.duration), 0) AS total_duration",
		"COUNT(l.id) AS log_count",
		"MAX(l.timestamp) AS last_activity",
	).
		Column(sq.Expr("COALESCE(BOOL_OR(l.categoria IN ("+sq.Placeholders(len(red))+")), false) AS has_red_alert", toArgs(red)...)).
		Column(sq.Expr("COALESCE(BOOL_OR(l.categoria IN ("+sq.Placeholders(len(blue))+")), false) AS has_blue_alert", toArgs(blue)...)),
		f).
		GroupBy("l.aluno_id", "s.full_name").
		OrderBy(byLastActivityDesc.String())
}

// AlertsQuery selects the filtered logs in an alert category, newest first, capped at AlertsLimit rows.
func AlertsQuery(f Filter) sq.SelectBuilder {
	f.AlertsOnly = true
	return LogsQuery(f).Limit(AlertsLimit)
}

// StudentAlertsQuery selects the logs of one aluno_id in the categories of a tier, newest first.
func StudentAlertsQuery(alunoID string, tier Tier) sq.SelectBuilder {
	return psql.Select("l.id", "l.aluno_id", "l.url", "l.duration", "l.timestamp", "l.categoria").
		From("logs l").
		Where(sq.Eq{"l.aluno_id": alunoID, "l.categoria": tier.Categories()}).
		OrderBy(byTimestampDesc.String())
}

// CategoriesQuery selects the distinct non-empty categories of the logs of the students in a professor's classes.
func CategoriesQuery(professorID int) sq.SelectBuilder {
	return psql.Select("DISTINCT l.categoria").
		From("logs l").
		Join(logsJoin).
		Join("class_students cs ON s.id = cs.student_id").
		Join("classes c ON cs.class_id = c.id").
		Where(sq.Eq{"c.professor_id": professorID}).
		Where(sq.NotEq{"l.categoria": nil}).
		Where(sq.NotEq{"l.categoria": ""}).
		OrderBy("l.categoria ASC")
}

func toArgs(ss []string) []interface{} {
	args := make([]interface{}, 0, len(ss))
	for _, s := range ss {
		args = append(args, s)
	}
	return args
}
