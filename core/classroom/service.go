package classroom

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

var (
	// errors
	ErrClassNotFound   = core.NewNotFoundError("Turma não encontrada ou sem permissão.")
	ErrStudentNotFound = core.NewNotFoundError("Aluno não encontrado.")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, class Class) (Class, error)
		// QueryClasses returns the classes owned by professorID, ordered by name.
		QueryClasses(ctx context.Context, professorID int) ([]Class, error)
		// GetClass returns ErrClassNotFound when no class has this id or it is not owned by professorID.
		GetClass(ctx context.Context, id, professorID int) (Class, error)
		// RenameClass and DeleteClass only touch rows owned by professorID; they return ErrClassNotFound otherwise.
		RenameClass(ctx context.Context, id, professorID int, name string) error
		// DeleteClass removes the class memberships along with it.
		DeleteClass(ctx context.Context, id, professorID int) error

		CreateStudent(ctx context.Context, student Student) (Student, error)
		// UpdateStudent returns ErrStudentNotFound when no student has this id.
		UpdateStudent(ctx context.Context, student Student) error
		GetStudent(ctx context.Context, id int) (Student, error)
		// QueryStudents returns all students, ordered by name.
		QueryStudents(ctx context.Context) ([]Student, error)
		// QueryClassStudents returns the roster of a class, ordered by name.
		QueryClassStudents(ctx context.Context, classID int) ([]Student, error)

		// AddMember is idempotent: adding an existing member is a no-op.
		AddMember(ctx context.Context, classID, studentID int) error
		// RemoveMember is a no-op for a non-member.
		RemoveMember(ctx context.Context, classID, studentID int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Classes

func (svc *Service) QueryClasses(ctx context.Context, auth core.AuthContext) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, auth.ProfessorID)
}

// CreateClass creates a class owned by the authenticated professor. in must have been validated.
func (svc *Service) CreateClass(ctx context.Context, auth core.AuthContext, in ClassInput) (Class, error) {
	class := Class{
		Name:        in.Name,
		ProfessorID: auth.ProfessorID,
		CreatedAt:   time.Now().UTC(),
	}
	class, err := svc.repo.CreateClass(ctx, class)
	if err != nil {
		return Class{}, errors.Wrap(err, "creating class")
	}
	return class, nil
}

func (svc *Service) RenameClass(ctx context.Context, auth core.AuthContext, id int, in ClassInput) error {
	return svc.repo.RenameClass(ctx, id, auth.ProfessorID, in.Name)
}

func (svc *Service) DeleteClass(ctx context.Context, auth core.AuthContext, id int) error {
	return svc.repo.DeleteClass(ctx, id, auth.ProfessorID)
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, in StudentInput) (Student, error) {
	student := in.student(0)
	student.CreatedAt = time.Now().UTC()
	student, err := svc.repo.CreateStudent(ctx, student)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	return student, nil
}

func (svc *Service) UpdateStudent(ctx context.Context, id int, in StudentInput) error {
	return svc.repo.UpdateStudent(ctx, in.student(id))
}

func (svc *Service) QueryStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

// Membership

// Roster returns the students of a class owned by the authenticated professor.
func (svc *Service) Roster(ctx context.Context, auth core.AuthContext, classID int) ([]Student, error) {
	if _, err := svc.repo.GetClass(ctx, classID, auth.ProfessorID); err != nil {
		return nil, err
	}
	return svc.repo.QueryClassStudents(ctx, classID)
}

func (svc *Service) AddMember(ctx context.Context, auth core.AuthContext, classID, studentID int) error {
	if _, err := svc.repo.GetClass(ctx, classID, auth.ProfessorID); err != nil {
		return err
	}
	if _, err := svc.repo.GetStudent(ctx, studentID); err != nil {
		return err
	}
	return svc.repo.AddMember(ctx, classID, studentID)
}

func (svc *Service) RemoveMember(ctx context.Context, auth core.AuthContext, classID, studentID int) error {
	if _, err := svc.repo.GetClass(ctx, classID, auth.ProfessorID); err != nil {
		return err
	}
	return svc.repo.RemoveMember(ctx, classID, studentID)
}
