package classroom

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

type Class struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ProfessorID int       `json:"professor_id" db:"professor_id"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
}

// Student is a monitored individual. Logs reference a student through either CPF or PCID.
type Student struct {
	ID        int         `json:"id" db:"id"`
	FullName  string      `json:"full_name" db:"full_name"`
	CPF       null.String `json:"cpf" db:"cpf"`
	PCID      null.String `json:"pc_id" db:"pc_id"`
	CreatedAt time.Time   `json:"-" db:"created_at"`
}

// ClassInput is used both to create and to rename a Class.
type ClassInput struct {
	Name string `json:"name" form:"name" validate:"required,max=255"`
}

func (ci *ClassInput) Validate(validate *validator.Validate) error {
	ci.Name = core.CleanString(ci.Name)
	return validate.Struct(ci)
}

// StudentInput is used both to create and to update a Student.
// Empty CPF/PCID are stored as NULL.
type StudentInput struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,max=255"`
	CPF      string `json:"cpf" form:"cpf" validate:"max=50"`
	PCID     string `json:"pc_id" form:"pc_id" validate:"max=100"`
}

func (si *StudentInput) Validate(validate *validator.Validate) error {
	si.FullName = core.CleanString(si.FullName)
	si.CPF = core.CleanString(si.CPF)
	si.PCID = core.CleanString(si.PCID)
	return validate.Struct(si)
}

func (si StudentInput) student(id int) Student {
	return Student{
		ID:       id,
		FullName: si.FullName,
		CPF:      null.NewString(si.CPF, si.CPF != ""),
		PCID:     null.NewString(si.PCID, si.PCID != ""),
	}
}

// ID is a numeric identifier accepted either as a JSON number or as a numeric string,
// from JSON bodies and form values alike.
type ID int

func (id *ID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n = json.Number(strings.TrimSpace(s))
	}
	return id.UnmarshalParam(n.String())
}

func (id *ID) UnmarshalParam(param string) error {
	v, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil {
		return err
	}
	*id = ID(v)
	return nil
}

type MembershipInput struct {
	StudentID ID `json:"studentId" form:"studentId" validate:"required,gt=0"`
}

func (mi *MembershipInput) Validate(validate *validator.Validate) error {
	return validate.Struct(mi)
}
