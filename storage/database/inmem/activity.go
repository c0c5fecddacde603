package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db}
}

// join left-joins every log to every student whose cpf or pc_id equals its aluno_id.
// It must be called with the lock held.
func (repo *activityRepository) join() []activity.Row {
	classIDs := make(map[int][]int)
	for m := range repo.db.members {
		classIDs[m.studentID] = append(classIDs[m.studentID], m.classID)
	}

	rows := make([]activity.Row, 0, len(repo.db.logs))
	for _, l := range repo.db.logs {
		matched := false
		for _, s := range repo.db.students {
			st := activity.Student{ID: s.ID, FullName: s.FullName, CPF: s.CPF, PCID: s.PCID, ClassIDs: classIDs[s.ID]}
			if !st.Matches(l.AlunoID) {
				continue
			}
			matched = true
			row := activity.Row{Log: l, Student: &st}
			row.Log.StudentName = null.StringFrom(s.FullName)
			rows = append(rows, row)
		}
		if !matched {
			rows = append(rows, activity.Row{Log: l})
		}
	}
	return rows
}

func (repo *activityRepository) filter(f activity.Filter) []activity.LogEntry {
	preds := f.Predicates()
	logs := make([]activity.LogEntry, 0)
	for _, r := range repo.join() {
		if activity.MatchAll(preds, r) {
			logs = append(logs, r.Log)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].Timestamp.After(logs[j].Timestamp)
		}
		return logs[i].ID > logs[j].ID
	})
	return logs
}

func (repo *activityRepository) QueryLogs(_ context.Context, f activity.Filter) ([]activity.LogEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.filter(f), nil
}

func (repo *activityRepository) QuerySummary(_ context.Context, f activity.Filter) ([]activity.UserSummary, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return activity.Summarize(repo.filter(f)), nil
}

func (repo *activityRepository) QueryAlerts(_ context.Context, f activity.Filter, limit int) ([]activity.LogEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	f.AlertsOnly = true
	logs := repo.filter(f)
	if limit >= 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (repo *activityRepository) QueryStudentAlerts(_ context.Context, alunoID string, tier activity.Tier) ([]activity.LogEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	logs := make([]activity.LogEntry, 0)
	for _, l := range repo.db.logs {
		if t, ok := activity.TierOf(l.Category.String); ok && l.Category.Valid && t == tier && l.AlunoID == alunoID {
			logs = append(logs, l)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Timestamp.After(logs[j].Timestamp) })
	return logs, nil
}

func (repo *activityRepository) QueryCategories(_ context.Context, professorID int) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	owned := make(map[int]bool)
	for _, c := range repo.db.classes {
		if c.ProfessorID == professorID {
			owned[c.ID] = true
		}
	}
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, r := range repo.join() {
		if r.Student == nil || !r.Log.Category.Valid || r.Log.Category.String == "" || seen[r.Log.Category.String] {
			continue
		}
		for _, classID := range r.Student.ClassIDs {
			if owned[classID] {
				seen[r.Log.Category.String] = true
				categories = append(categories, r.Log.Category.String)
				break
			}
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (repo *activityRepository) InsertLogs(_ context.Context, logs ...activity.LogEntry) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, l := range logs {
		repo.db.logPK++
		l.ID = repo.db.logPK
		l.StudentName = null.String{}
		l.Timestamp = l.Timestamp.UTC()
		repo.db.logs = append(repo.db.logs, l)
	}
	return nil
}
