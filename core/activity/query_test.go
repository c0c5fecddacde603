package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	logsColumns = "SELECT l.id, l.aluno_id, l.url, l.duration, l.timestamp, l.categoria, s.full_name AS student_name"
	logsFrom    = " FROM logs l LEFT JOIN students s ON l.aluno_id = s.cpf OR l.aluno_id = s.pc_id"
)

func TestLogsQuery(t *testing.T) {
	sql, args, err := LogsQuery(Filter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, logsColumns+logsFrom+" ORDER BY l.timestamp DESC", sql)
	assert.Empty(t, args)

	sql, args, err = LogsQuery(Filter{ClassID: intPtr(5), Category: "Jogos"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, logsColumns+logsFrom+
		" WHERE s.id IN (SELECT student_id FROM class_students WHERE class_id = $1) AND l.categoria = $2"+
		" ORDER BY l.timestamp DESC", sql)
	assert.Equal(t, []interface{}{5, "Jogos"}, args)
}

func TestSummaryQuery(t *testing.T) {
	sql, args, err := SummaryQuery(Filter{Search: "ana"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "COALESCE(BOOL_OR(l.categoria IN ($1,$2,$3,$4)), false) AS has_red_alert")
	assert.Contains(t, sql, "COALESCE(BOOL_OR(l.categoria IN ($5)), false) AS has_blue_alert")
	assert.Contains(t, sql, "WHERE (s.full_name ILIKE $6 OR s.cpf ILIKE $7 OR s.pc_id ILIKE $8)")
	assert.Contains(t, sql, "GROUP BY l.aluno_id, s.full_name ORDER BY last_activity DESC")
	assert.Equal(t, []interface{}{"Rede Social", "Jogos", "Streaming", "Animes e Manga", "IA", "%ana%", "%ana%", "%ana%"}, args)
}

func TestAlertsQuery(t *testing.T) {
	sql, args, err := AlertsQuery(Filter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, logsColumns+logsFrom+
		" WHERE l.categoria IN ($1,$2,$3,$4,$5) ORDER BY l.timestamp DESC LIMIT 100", sql)
	assert.Len(t, args, 5)
}

func TestStudentAlertsQuery(t *testing.T) {
	sql, args, err := StudentAlertsQuery("111", TierBlue).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT l.id, l.aluno_id, l.url, l.duration, l.timestamp, l.categoria FROM logs l"+
		" WHERE l.aluno_id = $1 AND l.categoria IN ($2) ORDER BY l.timestamp DESC", sql)
	assert.Equal(t, []interface{}{"111", "IA"}, args)
}

func TestCategoriesQuery(t *testing.T) {
	sql, args, err := CategoriesQuery(7).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT l.categoria FROM logs l"+
		" JOIN students s ON l.aluno_id = s.cpf OR l.aluno_id = s.pc_id"+
		" JOIN class_students cs ON s.id = cs.student_id"+
		" JOIN classes c ON cs.class_id = c.id"+
		" WHERE c.professor_id = $1 AND l.categoria IS NOT NULL AND l.categoria <> $2"+
		" ORDER BY l.categoria ASC", sql)
	assert.Equal(t, []interface{}{7, ""}, args)
}
