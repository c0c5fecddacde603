package activity

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

type (
	Repository interface {
		// QueryLogs returns the logs matching f, newest first.
		QueryLogs(ctx context.Context, f Filter) ([]LogEntry, error)
		// QuerySummary returns the per aluno_id aggregates of the logs matching f, most recent activity first.
		QuerySummary(ctx context.Context, f Filter) ([]UserSummary, error)
		// QueryAlerts returns at most limit alert logs matching f, newest first.
		QueryAlerts(ctx context.Context, f Filter, limit int) ([]LogEntry, error)
		// QueryStudentAlerts returns the logs of alunoID in the categories of tier, newest first.
		QueryStudentAlerts(ctx context.Context, alunoID string, tier Tier) ([]LogEntry, error)
		// QueryCategories returns the distinct categories seen in the logs of a professor's students.
		QueryCategories(ctx context.Context, professorID int) ([]string, error)
		// InsertLogs stores logs ingested outside of the monitoring agent (imports, fixtures).
		InsertLogs(ctx context.Context, logs ...LogEntry) error
	}

	// Service serves the read side of the activity logs. Reads are not scoped to a professor beyond
	// the class filter: students and logs are not owned by anyone.
	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Logs(ctx context.Context, _ core.AuthContext, f Filter) ([]LogEntry, error) {
	logs, err := svc.repo.QueryLogs(ctx, f)
	return logs, errors.Wrap(err, "querying logs")
}

func (svc *Service) Summary(ctx context.Context, _ core.AuthContext, f Filter) ([]UserSummary, error) {
	summaries, err := svc.repo.QuerySummary(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "querying summary")
	}
	for i := range summaries {
		summaries[i].HasAlert = summaries[i].HasRedAlert || summaries[i].HasBlueAlert
	}
	return summaries, nil
}

func (svc *Service) Alerts(ctx context.Context, _ core.AuthContext, f Filter) ([]LogEntry, error) {
	f.AlertsOnly = true
	logs, err := svc.repo.QueryAlerts(ctx, f, AlertsLimit)
	return logs, errors.Wrap(err, "querying alerts")
}

func (svc *Service) StudentAlerts(ctx context.Context, _ core.AuthContext, alunoID, tier string) ([]LogEntry, error) {
	t, err := ParseTier(tier)
	if err != nil {
		return nil, err
	}
	logs, err := svc.repo.QueryStudentAlerts(ctx, alunoID, t)
	return logs, errors.Wrap(err, "querying student alerts")
}

// TopSites returns the chart data of the logs matching f.
func (svc *Service) TopSites(ctx context.Context, auth core.AuthContext, f Filter) ([]SiteUsage, error) {
	logs, err := svc.Logs(ctx, auth, f)
	if err != nil {
		return nil, err
	}
	return TopSites(logs, TopSitesLimit), nil
}

func (svc *Service) Categories(ctx context.Context, auth core.AuthContext) ([]string, error) {
	categories, err := svc.repo.QueryCategories(ctx, auth.ProfessorID)
	return categories, errors.Wrap(err, "querying categories")
}

func (svc *Service) Import(ctx context.Context, logs []LogEntry) error {
	return errors.Wrap(svc.repo.InsertLogs(ctx, logs...), "inserting logs")
}
