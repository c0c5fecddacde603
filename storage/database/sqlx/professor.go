package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database"
)

const professorColumns = "id, username, full_name, password_hash, created_at, updated_at"

type professorRepository struct {
	db *sqlx.DB
}

var _ professor.Repository = (*professorRepository)(nil) // interface compliance check

func NewProfessorRepository(db *sqlx.DB) professor.Repository {
	return &professorRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to professor.ErrNotFound
func (repo professorRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return professor.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo professorRepository) CreateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	err := repo.db.QueryRowxContext(ctx,
		`INSERT INTO professors (username, full_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		prof.Username, prof.FullName, prof.PasswordHash, prof.CreatedAt, prof.UpdatedAt,
	).Scan(&prof.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return professor.Professor{}, professor.ErrUsernameTaken
		}
		return professor.Professor{}, errors.Wrap(err, "inserting professor")
	}
	return prof, nil
}

func (repo professorRepository) GetProfessorByID(ctx context.Context, id int) (professor.Professor, error) {
	var prof professor.Professor
	err := repo.db.GetContext(ctx, &prof, "SELECT "+professorColumns+" FROM professors WHERE id = $1", id)
	if err != nil {
		return professor.Professor{}, repo.trapNoRowsErr(err, "finding professor by ID")
	}
	return prof, nil
}

func (repo professorRepository) GetProfessorByUsername(ctx context.Context, username string) (professor.Professor, error) {
	var prof professor.Professor
	err := repo.db.GetContext(ctx, &prof, "SELECT "+professorColumns+" FROM professors WHERE username = $1", username)
	if err != nil {
		return professor.Professor{}, repo.trapNoRowsErr(err, "finding professor by username")
	}
	return prof, nil
}

func (repo professorRepository) UpdateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	err := repo.db.GetContext(ctx, &prof,
		`UPDATE professors SET full_name = $2, password_hash = $3, updated_at = $4
		WHERE id = $1 RETURNING `+professorColumns,
		prof.ID, prof.FullName, prof.PasswordHash, prof.UpdatedAt,
	)
	if err != nil {
		return professor.Professor{}, repo.trapNoRowsErr(err, "updating professor")
	}
	return prof, nil
}
