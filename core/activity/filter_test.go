package activity

import (
	"fmt"
	"math/bits"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

func intPtr(i int) *int { return &i }

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Filter
		wantErr bool
	}{
		{name: "empty", query: "", want: Filter{}},
		{name: "null class", query: "classId=null", want: Filter{}},
		{name: "class", query: "classId=%203%20", want: Filter{ClassID: intPtr(3)}},
		{name: "bad class", query: "classId=abc", wantErr: true},
		{
			name:  "everything",
			query: "classId=1&search=+ana+&category=IA&showAlertsOnly=true",
			want:  Filter{ClassID: intPtr(1), Search: "ana", Category: "IA", AlertsOnly: true},
		},
		{name: "alerts only needs true", query: "showAlertsOnly=1", want: Filter{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := ParseFilter(q)
			if tt.wantErr {
				assert.IsType(t, &core.ValidationError{}, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Values(t *testing.T) {
	assert.Equal(t, url.Values{"classId": {"null"}}, Filter{}.Values())

	f := Filter{ClassID: intPtr(2), Search: "ana", Category: "Jogos", AlertsOnly: true}
	got, err := ParseFilter(f.Values())
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

// TestPredicates_combinations parses every combination of the four parameters, each either set to a valid value or
// left out (absent or blank: classId=null, search of spaces, category of spaces, showAlertsOnly=false), and checks
// that there is exactly one predicate per valid parameter.
func TestPredicates_combinations(t *testing.T) {
	params := []struct {
		key, valid, blank, name string
		args                    int
	}{
		{key: "classId", valid: "3", blank: "null", name: "class", args: 1},
		{key: "search", valid: "ana", blank: "   ", name: "search", args: 3},
		{key: "category", valid: "Jogos", blank: " ", name: "category", args: 1},
		{key: "showAlertsOnly", valid: "true", blank: "false", name: "alerts", args: len(AlertCategories())},
	}

	for set := 0; set < 1<<len(params); set++ {
		for blank := 0; blank < 1<<len(params); blank++ {
			if set&blank != 0 {
				continue
			}
			q := make(url.Values)
			var wantNames []string
			wantArgs := 0
			for i, p := range params {
				switch {
				case set&(1<<i) != 0:
					q.Set(p.key, p.valid)
					wantNames = append(wantNames, p.name)
					wantArgs += p.args
				case blank&(1<<i) != 0:
					q.Set(p.key, p.blank)
				}
			}

			t.Run(fmt.Sprintf("?%s", q.Encode()), func(t *testing.T) {
				f, err := ParseFilter(q)
				require.NoError(t, err)
				preds := f.Predicates()
				require.Len(t, preds, bits.OnesCount(uint(set)))

				names := make([]string, 0, len(preds))
				for _, p := range preds {
					names = append(names, p.Name)
				}
				if len(wantNames) == 0 {
					assert.Empty(t, names)
				} else {
					assert.Equal(t, wantNames, names)
				}

				clause, args, err := Where(preds)
				require.NoError(t, err)
				assert.Len(t, args, wantArgs)
				assert.Equal(t, set == 0, clause == "")
			})
		}
	}
}

func TestWhere(t *testing.T) {
	sql, args, err := Where(Filter{}.Predicates())
	require.NoError(t, err)
	assert.Empty(t, sql)
	assert.Empty(t, args)

	f := Filter{ClassID: intPtr(3), Search: "a_b%", Category: "IA", AlertsOnly: true}
	sql, args, err = Where(f.Predicates())
	require.NoError(t, err)
	assert.Equal(t, "(s.id IN (SELECT student_id FROM class_students WHERE class_id = ?)"+
		" AND (s.full_name ILIKE ? OR s.cpf ILIKE ? OR s.pc_id ILIKE ?)"+
		" AND l.categoria = ?"+
		" AND l.categoria IN (?,?,?,?,?))", sql)
	assert.Equal(t, []interface{}{
		3,
		`%a\_b\%%`, `%a\_b\%%`, `%a\_b\%%`,
		"IA",
		"Rede Social", "Jogos", "Streaming", "Animes e Manga", "IA",
	}, args)
}

func TestPredicates_match(t *testing.T) {
	ana := &Student{ID: 1, FullName: "Ana Souza", CPF: null.StringFrom("111"), ClassIDs: []int{3}}
	pc := &Student{ID: 2, FullName: "Bia", PCID: null.StringFrom("PC-02")}

	rows := map[string]Row{
		"ana game":  {Log: LogEntry{AlunoID: "111", Category: null.StringFrom("Jogos")}, Student: ana},
		"ana docs":  {Log: LogEntry{AlunoID: "111"}, Student: ana},
		"pc ia":     {Log: LogEntry{AlunoID: "PC-02", Category: null.StringFrom("IA")}, Student: pc},
		"orphan ia": {Log: LogEntry{AlunoID: "999", Category: null.StringFrom("IA")}},
	}
	tests := []struct {
		filter Filter
		want   []string
	}{
		{filter: Filter{}, want: []string{"ana game", "ana docs", "pc ia", "orphan ia"}},
		{filter: Filter{ClassID: intPtr(3)}, want: []string{"ana game", "ana docs"}},
		{filter: Filter{Search: "souza"}, want: []string{"ana game", "ana docs"}},
		{filter: Filter{Search: "pc-0"}, want: []string{"pc ia"}},
		{filter: Filter{Category: "IA"}, want: []string{"pc ia", "orphan ia"}},
		{filter: Filter{AlertsOnly: true}, want: []string{"ana game", "pc ia", "orphan ia"}},
		{filter: Filter{ClassID: intPtr(3), AlertsOnly: true}, want: []string{"ana game"}},
		{filter: Filter{ClassID: intPtr(4)}, want: []string{}},
	}
	for _, tt := range tests {
		preds := tt.filter.Predicates()
		got := make([]string, 0)
		for name, r := range rows {
			if MatchAll(preds, r) {
				got = append(got, name)
			}
		}
		assert.ElementsMatch(t, tt.want, got, "%+v", tt.filter)
	}
}
