package activity

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// LogEntry is one browsing event recorded by the monitoring agent.
// AlunoID refers to a student's cpf or pc_id; StudentName is filled when the join finds that student.
type LogEntry struct {
	ID          int64       `json:"id" db:"id"`
	AlunoID     string      `json:"aluno_id" db:"aluno_id"`
	URL         string      `json:"url" db:"url"`
	Duration    int         `json:"duration" db:"duration"` // seconds
	Timestamp   time.Time   `json:"timestamp" db:"timestamp"`
	Category    null.String `json:"categoria" db:"categoria"`
	StudentName null.String `json:"student_name" db:"student_name"`
}

func (l LogEntry) IsAlert() bool {
	return l.Category.Valid && IsAlert(l.Category.String)
}

// UserSummary aggregates the logs of one alunoId.
type UserSummary struct {
	StudentName   null.String `json:"student_name" db:"student_name"`
	AlunoID       string      `json:"aluno_id" db:"aluno_id"`
	TotalDuration int64       `json:"total_duration" db:"total_duration"`
	LogCount      int         `json:"log_count" db:"log_count"`
	LastActivity  time.Time   `json:"last_activity" db:"last_activity"`
	HasRedAlert   bool        `json:"has_red_alert" db:"has_red_alert"`
	HasBlueAlert  bool        `json:"has_blue_alert" db:"has_blue_alert"`
	HasAlert      bool        `json:"has_alert" db:"-"`
}

// SiteUsage is the total time spent on one URL.
type SiteUsage struct {
	URL      string `json:"url"`
	Duration int64  `json:"duration"`
}

// Student is the part of a student the log join looks at.
type Student struct {
	ID       int
	FullName string
	CPF      null.String
	PCID     null.String
	ClassIDs []int
}

// Matches reports whether alunoID refers to this student.
func (s Student) Matches(alunoID string) bool {
	return (s.CPF.Valid && s.CPF.String == alunoID) || (s.PCID.Valid && s.PCID.String == alunoID)
}

func (s Student) InClass(classID int) bool {
	for _, id := range s.ClassIDs {
		if id == classID {
			return true
		}
	}
	return false
}

// Row is a log left-joined to one of its matching students; Student is nil when none matches.
type Row struct {
	Log     LogEntry
	Student *Student
}
