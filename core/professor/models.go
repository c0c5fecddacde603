package professor

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

type Professor struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (p *Professor) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return nil
}

// CheckPassword compares pwd against the stored hash in constant time.
func (p *Professor) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(pwd))
}

// Auth returns the AuthContext of an authenticated professor.
func (p Professor) Auth() core.AuthContext {
	return core.AuthContext{ProfessorID: p.ID, ProfessorName: p.FullName}
}

// NewProfessor contains information needed to register a new Professor.
type NewProfessor struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,max=255"`
	Username string `json:"username" form:"username" validate:"required,max=100,username"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (np *NewProfessor) Validate(validate *validator.Validate) error {
	np.FullName = core.CleanString(np.FullName)
	// usernames are not lowered: "Test.User" must be rejected, not silently fixed
	np.Username = core.CleanString(np.Username)
	return validate.Struct(np)
}

// UpdateProfile defines what a professor may change on their own profile.
type UpdateProfile struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,max=255"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.FullName = core.CleanString(up.FullName)
	return validate.Struct(up)
}

type Credentials struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Username = core.CleanString(c.Username)
	return validate.Struct(c)
}
