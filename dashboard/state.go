// Package dashboard keeps the state of a professor's dashboard and derives its views.
// Every mutation goes through the Store: call the API, refetch what changed, commit, re-render everything.
package dashboard

import (
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
)

type ChartType string

const (
	ChartBar      ChartType = "bar"
	ChartPie      ChartType = "pie"
	ChartDoughnut ChartType = "doughnut"
)

var ErrInvalidChartType = errors.New("tipo de gráfico inválido")

func ParseChartType(s string) (ChartType, error) {
	switch t := ChartType(s); t {
	case ChartBar, ChartPie, ChartDoughnut:
		return t, nil
	}
	return "", ErrInvalidChartType
}

// State is the canonical client state. ActiveClassID is nil when no class is selected.
type State struct {
	ActiveClassID   *int
	ActiveClassName string
	Classes         []classroom.Class
	AllStudents     []classroom.Student
	StudentsInClass []classroom.Student
	EditingStudent  *classroom.Student
	ChartType       ChartType
	Filter          activity.Filter // ClassID always mirrors ActiveClassID
}

// Panels holds the data of the activity panels, fetched for one filter.
type Panels struct {
	Summary []activity.UserSummary
	Logs    []activity.LogEntry
}

func (st State) ClassActive() bool {
	return st.ActiveClassID != nil
}

func (st State) class(id int) (classroom.Class, bool) {
	for _, c := range st.Classes {
		if c.ID == id {
			return c, true
		}
	}
	return classroom.Class{}, false
}

func (st State) student(id int) (classroom.Student, bool) {
	for _, s := range st.AllStudents {
		if s.ID == id {
			return s, true
		}
	}
	return classroom.Student{}, false
}

func (st State) inClass(studentID int) bool {
	for _, s := range st.StudentsInClass {
		if s.ID == studentID {
			return true
		}
	}
	return false
}

// clone copies the slices so that a snapshot handed to a renderer cannot alias the store's state.
func (st State) clone() State {
	cp := st
	if st.ActiveClassID != nil {
		id := *st.ActiveClassID
		cp.ActiveClassID = &id
	}
	if st.EditingStudent != nil {
		s := *st.EditingStudent
		cp.EditingStudent = &s
	}
	cp.Filter.ClassID = cp.ActiveClassID
	cp.Classes = append([]classroom.Class(nil), st.Classes...)
	cp.AllStudents = append([]classroom.Student(nil), st.AllStudents...)
	cp.StudentsInClass = append([]classroom.Student(nil), st.StudentsInClass...)
	return cp
}
