package inmemdb

import (
	"context"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
)

type professorRepository struct {
	db *DB
}

var _ professor.Repository = (*professorRepository)(nil)

func NewProfessorRepository(db *DB) professor.Repository {
	return &professorRepository{db: db}
}

func (repo *professorRepository) CreateProfessor(_ context.Context, prof professor.Professor) (professor.Professor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, p := range repo.db.professors {
		if p.Username == prof.Username {
			return professor.Professor{}, professor.ErrUsernameTaken
		}
	}
	repo.db.professorPK++
	prof.ID = repo.db.professorPK
	repo.db.professors[prof.ID] = &prof
	return prof, nil
}

func (repo *professorRepository) GetProfessorByID(_ context.Context, id int) (professor.Professor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prof, ok := repo.db.professors[id]; ok {
		return *prof, nil
	}
	return professor.Professor{}, professor.ErrNotFound
}

func (repo *professorRepository) GetProfessorByUsername(_ context.Context, username string) (professor.Professor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prof := range repo.db.professors {
		if prof.Username == username {
			return *prof, nil
		}
	}
	return professor.Professor{}, professor.ErrNotFound
}

func (repo *professorRepository) UpdateProfessor(_ context.Context, prof professor.Professor) (professor.Professor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.professors[prof.ID]
	if !ok {
		return professor.Professor{}, professor.ErrNotFound
	}
	orig.FullName = prof.FullName
	if prof.PasswordHash != nil {
		orig.PasswordHash = prof.PasswordHash
	}
	orig.UpdatedAt = prof.UpdatedAt
	return *orig, nil
}
