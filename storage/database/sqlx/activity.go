package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
)

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *sqlx.DB) activity.Repository {
	return &activityRepository{db: db}
}

func (repo activityRepository) selectLogs(ctx context.Context, b sq.SelectBuilder, msg string) ([]activity.LogEntry, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrapf(err, "building %s query", msg)
	}
	logs := make([]activity.LogEntry, 0)
	if err := repo.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, errors.Wrapf(err, "querying %s", msg)
	}
	return logs, nil
}

func (repo activityRepository) QueryLogs(ctx context.Context, f activity.Filter) ([]activity.LogEntry, error) {
	return repo.selectLogs(ctx, activity.LogsQuery(f), "logs")
}

func (repo activityRepository) QuerySummary(ctx context.Context, f activity.Filter) ([]activity.UserSummary, error) {
	query, args, err := activity.SummaryQuery(f).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building summary query")
	}
	summaries := make([]activity.UserSummary, 0)
	if err := repo.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying summary")
	}
	return summaries, nil
}

func (repo activityRepository) QueryAlerts(ctx context.Context, f activity.Filter, limit int) ([]activity.LogEntry, error) {
	f.AlertsOnly = true
	return repo.selectLogs(ctx, activity.LogsQuery(f).Limit(uint64(limit)), "alerts")
}

func (repo activityRepository) QueryStudentAlerts(ctx context.Context, alunoID string, tier activity.Tier) ([]activity.LogEntry, error) {
	return repo.selectLogs(ctx, activity.StudentAlertsQuery(alunoID, tier), "student alerts")
}

func (repo activityRepository) QueryCategories(ctx context.Context, professorID int) ([]string, error) {
	query, args, err := activity.CategoriesQuery(professorID).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building categories query")
	}
	categories := make([]string, 0)
	if err := repo.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	return categories, nil
}

func (repo activityRepository) InsertLogs(ctx context.Context, logs ...activity.LogEntry) error {
	if len(logs) == 0 {
		return nil
	}
	b := sq.Insert("logs").
		Columns("aluno_id", "url", "duration", `"timestamp"`, "categoria").
		PlaceholderFormat(sq.Dollar)
	for _, l := range logs {
		b = b.Values(l.AlunoID, l.URL, l.Duration, l.Timestamp.UTC(), l.Category)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building logs insert")
	}
	_, err = repo.db.ExecContext(ctx, query, args...)
	return errors.Wrap(err, "inserting logs")
}
