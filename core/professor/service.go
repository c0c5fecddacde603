package professor

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("professor não encontrado")
	ErrUsernameTaken      = errors.New("este nome de utilizador já está em uso")
	ErrInvalidCredentials = errors.New("nome de utilizador ou senha inválidos")
)

type (
	Repository interface {
		// CreateProfessor returns ErrUsernameTaken when the username is already in use.
		CreateProfessor(ctx context.Context, prof Professor) (Professor, error)
		GetProfessorByID(ctx context.Context, id int) (Professor, error)
		GetProfessorByUsername(ctx context.Context, username string) (Professor, error)
		UpdateProfessor(ctx context.Context, prof Professor) (Professor, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new professor. np must have been validated.
func (svc *Service) Register(ctx context.Context, np NewProfessor) (Professor, error) {
	now := time.Now().UTC()
	prof := Professor{
		Username:  np.Username,
		FullName:  np.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := prof.SetPassword(np.Password); err != nil {
		return Professor{}, errors.Wrap(err, "hashing password")
	}
	prof, err := svc.repo.CreateProfessor(ctx, prof)
	if err != nil {
		if errors.Cause(err) == ErrUsernameTaken {
			return Professor{}, core.NewValidationError(ErrUsernameTaken, core.FieldError{Field: "username", Error: ErrUsernameTaken.Error()})
		}
		return Professor{}, errors.Wrap(err, "creating professor")
	}
	return prof, nil
}

// Authenticate verifies the credentials, returning ErrInvalidCredentials for an unknown username or a bad password alike.
func (svc *Service) Authenticate(ctx context.Context, username, pwd string) (Professor, error) {
	prof, err := svc.repo.GetProfessorByUsername(ctx, core.CleanString(username))
	if err != nil {
		if core.IsNotFound(err) {
			return Professor{}, ErrInvalidCredentials
		}
		return Professor{}, errors.Wrap(err, "finding professor by username")
	}
	if err := prof.CheckPassword(pwd); err != nil {
		return Professor{}, ErrInvalidCredentials
	}
	return prof, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Professor, error) {
	return svc.repo.GetProfessorByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (Professor, error) {
	return svc.repo.GetProfessorByUsername(ctx, core.CleanString(username))
}

// UpdateProfile changes the full name of the authenticated professor. up must have been validated.
func (svc *Service) UpdateProfile(ctx context.Context, auth core.AuthContext, up UpdateProfile) (Professor, error) {
	prof, err := svc.repo.GetProfessorByID(ctx, auth.ProfessorID)
	if err != nil {
		return Professor{}, err
	}
	prof.FullName = up.FullName
	prof.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProfessor(ctx, prof)
}

// SetPassword replaces the password of the named professor, enforcing the password policy.
func (svc *Service) SetPassword(ctx context.Context, username, pwd string) (Professor, error) {
	if err := ValidatePassword(pwd); err != nil {
		return Professor{}, err
	}
	prof, err := svc.GetByUsername(ctx, username)
	if err != nil {
		return Professor{}, err
	}
	if err := prof.SetPassword(pwd); err != nil {
		return Professor{}, errors.Wrap(err, "hashing password")
	}
	prof.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProfessor(ctx, prof)
}
