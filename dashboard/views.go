package dashboard

import (
	"strconv"
	"time"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
)

const (
	msgNoStudents     = "Nenhum aluno cadastrado."
	msgEmptyRoster    = "Arraste ou clique no '+' de um aluno para adicioná-lo aqui."
	msgNoLogs         = "Nenhum log encontrado para a seleção atual."
	msgNoActivity     = "Nenhum dado de atividade para a seleção atual."
	msgNoChartData    = "Nenhum dado para exibir"
	chartDatasetLabel = "Tempo de Uso (s)"

	// what toLocaleString('pt-BR') prints
	timestampLayout = "02/01/2006, 15:04:05"
)

type (
	StudentItem struct {
		ID   int
		Name string
		// Disabled marks a member of the active class: it cannot be added again.
		Disabled bool
		CanAdd   bool
	}

	AllStudentsView struct {
		Items []StudentItem
		Empty string
	}

	RosterItem struct {
		ID   int
		Name string
	}

	RosterView struct {
		Visible   bool
		ClassName string
		Items     []RosterItem
		Empty     string
	}

	LogRow struct {
		Student   string
		URL       string
		Duration  string
		Category  string
		Timestamp string
		Alert     bool
	}

	LogsTable struct {
		Count int
		Rows  []LogRow
		Empty string
	}

	SummaryRow struct {
		Status       string
		Name         string
		Unnamed      bool // Name is the aluno_id: no student matched it
		AlunoID      string
		Minutes      string
		LogCount     string
		LastActivity string
		Alert        bool
	}

	SummaryTable struct {
		Rows  []SummaryRow
		Empty string
	}

	ChartView struct {
		Type         ChartType
		Horizontal   bool
		ShowLegend   bool
		DatasetLabel string
		Labels       []string
		Data         []int64
		Placeholder  bool
	}

	// Views are the five panels of the dashboard.
	Views struct {
		AllStudents AllStudentsView
		Roster      RosterView
		Logs        LogsTable
		Summary     SummaryTable
		Chart       ChartView
	}
)

// Render derives every view from st and p, printing times in the local time zone.
func Render(st State, p Panels) Views {
	return RenderIn(st, p, time.Local)
}

// RenderIn is Render with times printed in loc.
func RenderIn(st State, p Panels, loc *time.Location) Views {
	return Views{
		AllStudents: allStudentsView(st),
		Roster:      rosterView(st),
		Logs:        logsTable(p.Logs, loc),
		Summary:     summaryTable(p.Summary, loc),
		Chart:       chartView(st.ChartType, p.Logs),
	}
}

func allStudentsView(st State) AllStudentsView {
	v := AllStudentsView{Items: make([]StudentItem, 0, len(st.AllStudents))}
	if len(st.AllStudents) == 0 {
		v.Empty = msgNoStudents
		return v
	}
	active := st.ClassActive()
	for _, s := range st.AllStudents {
		member := active && st.inClass(s.ID)
		v.Items = append(v.Items, StudentItem{
			ID:       s.ID,
			Name:     s.FullName,
			Disabled: member,
			CanAdd:   active && !member,
		})
	}
	return v
}

func rosterView(st State) RosterView {
	v := RosterView{
		Visible:   st.ClassActive(),
		ClassName: st.ActiveClassName,
		Items:     make([]RosterItem, 0, len(st.StudentsInClass)),
	}
	for _, s := range st.StudentsInClass {
		v.Items = append(v.Items, RosterItem{ID: s.ID, Name: s.FullName})
	}
	if len(v.Items) == 0 {
		v.Empty = msgEmptyRoster
	}
	return v
}

func logsTable(logs []activity.LogEntry, loc *time.Location) LogsTable {
	v := LogsTable{Count: len(logs), Rows: make([]LogRow, 0, len(logs))}
	if len(logs) == 0 {
		v.Empty = msgNoLogs
		return v
	}
	for _, l := range logs {
		row := LogRow{
			Student:   l.AlunoID,
			URL:       l.URL,
			Duration:  strconv.Itoa(l.Duration) + "s",
			Category:  "N/A",
			Timestamp: l.Timestamp.In(loc).Format(timestampLayout),
			Alert:     l.IsAlert(),
		}
		if l.StudentName.Valid && l.StudentName.String != "" {
			row.Student = l.StudentName.String
		}
		if l.Category.Valid && l.Category.String != "" {
			row.Category = l.Category.String
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func summaryTable(summaries []activity.UserSummary, loc *time.Location) SummaryTable {
	v := SummaryTable{Rows: make([]SummaryRow, 0, len(summaries))}
	if len(summaries) == 0 {
		v.Empty = msgNoActivity
		return v
	}
	for _, s := range summaries {
		alert := s.HasAlert || s.HasRedAlert || s.HasBlueAlert
		row := SummaryRow{
			Status:       "✅",
			Name:         s.AlunoID,
			Unnamed:      true,
			AlunoID:      s.AlunoID,
			Minutes:      strconv.FormatFloat(float64(s.TotalDuration)/60, 'f', 1, 64),
			LogCount:     strconv.Itoa(s.LogCount),
			LastActivity: s.LastActivity.In(loc).Format(timestampLayout),
			Alert:        alert,
		}
		if alert {
			row.Status = "⚠️"
		}
		if s.StudentName.Valid && s.StudentName.String != "" {
			row.Name, row.Unnamed = s.StudentName.String, false
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func chartView(t ChartType, logs []activity.LogEntry) ChartView {
	if t == "" {
		t = ChartBar
	}
	v := ChartView{
		Type:         t,
		Horizontal:   t == ChartBar,
		ShowLegend:   t != ChartBar,
		DatasetLabel: chartDatasetLabel,
	}
	sites := activity.TopSites(logs, activity.TopSitesLimit)
	if len(sites) == 0 {
		v.Labels = []string{msgNoChartData}
		v.Data = []int64{}
		v.Placeholder = true
		return v
	}
	for _, s := range sites {
		v.Labels = append(v.Labels, s.URL)
		v.Data = append(v.Data, s.Duration)
	}
	return v
}
