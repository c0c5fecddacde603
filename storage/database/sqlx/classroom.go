package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/storage/database"
)

const (
	classColumns   = "id, name, professor_id, created_at"
	studentColumns = "s.id, s.full_name, s.cpf, s.pc_id, s.created_at"
)

type classroomRepository struct {
	db *sqlx.DB
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func NewClassroomRepository(db *sqlx.DB) classroom.Repository {
	return &classroomRepository{db: db}
}

// exactlyOne maps a zero-rows result to notFound.
func exactlyOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (repo classroomRepository) CreateClass(ctx context.Context, class classroom.Class) (classroom.Class, error) {
	err := repo.db.QueryRowxContext(ctx,
		"INSERT INTO classes (name, professor_id, created_at) VALUES ($1, $2, $3) RETURNING id",
		class.Name, class.ProfessorID, class.CreatedAt,
	).Scan(&class.ID)
	if err != nil {
		return classroom.Class{}, errors.Wrap(err, "inserting class")
	}
	return class, nil
}

func (repo classroomRepository) QueryClasses(ctx context.Context, professorID int) ([]classroom.Class, error) {
	classes := make([]classroom.Class, 0)
	err := repo.db.SelectContext(ctx, &classes,
		"SELECT "+classColumns+" FROM classes WHERE professor_id = $1 ORDER BY name ASC, id ASC", professorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo classroomRepository) GetClass(ctx context.Context, id, professorID int) (classroom.Class, error) {
	var class classroom.Class
	err := repo.db.GetContext(ctx, &class,
		"SELECT "+classColumns+" FROM classes WHERE id = $1 AND professor_id = $2", id, professorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return classroom.Class{}, classroom.ErrClassNotFound
		}
		return classroom.Class{}, errors.Wrap(err, "finding class")
	}
	return class, nil
}

func (repo classroomRepository) RenameClass(ctx context.Context, id, professorID int, name string) error {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE classes SET name = $1 WHERE id = $2 AND professor_id = $3", name, id, professorID)
	if err != nil {
		return errors.Wrap(err, "renaming class")
	}
	return exactlyOne(res, classroom.ErrClassNotFound)
}

func (repo classroomRepository) DeleteClass(ctx context.Context, id, professorID int) error {
	// class_students rows go with it (ON DELETE CASCADE)
	res, err := repo.db.ExecContext(ctx, "DELETE FROM classes WHERE id = $1 AND professor_id = $2", id, professorID)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return exactlyOne(res, classroom.ErrClassNotFound)
}

func (repo classroomRepository) CreateStudent(ctx context.Context, student classroom.Student) (classroom.Student, error) {
	err := repo.db.QueryRowxContext(ctx,
		"INSERT INTO students (full_name, cpf, pc_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		student.FullName, student.CPF, student.PCID, student.CreatedAt,
	).Scan(&student.ID)
	if err != nil {
		return classroom.Student{}, errors.Wrap(err, "inserting student")
	}
	return student, nil
}

func (repo classroomRepository) UpdateStudent(ctx context.Context, student classroom.Student) error {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE students SET full_name = $1, cpf = $2, pc_id = $3 WHERE id = $4",
		student.FullName, student.CPF, student.PCID, student.ID)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return exactlyOne(res, classroom.ErrStudentNotFound)
}

func (repo classroomRepository) GetStudent(ctx context.Context, id int) (classroom.Student, error) {
	var student classroom.Student
	err := repo.db.GetContext(ctx, &student, "SELECT "+studentColumns+" FROM students s WHERE s.id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return classroom.Student{}, classroom.ErrStudentNotFound
		}
		return classroom.Student{}, errors.Wrap(err, "finding student")
	}
	return student, nil
}

func (repo classroomRepository) QueryStudents(ctx context.Context) ([]classroom.Student, error) {
	students := make([]classroom.Student, 0)
	err := repo.db.SelectContext(ctx, &students, "SELECT "+studentColumns+" FROM students s ORDER BY s.full_name ASC, s.id ASC")
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo classroomRepository) QueryClassStudents(ctx context.Context, classID int) ([]classroom.Student, error) {
	students := make([]classroom.Student, 0)
	err := repo.db.SelectContext(ctx, &students,
		`SELECT `+studentColumns+` FROM students s
		JOIN class_students cs ON s.id = cs.student_id
		WHERE cs.class_id = $1
		ORDER BY s.full_name ASC, s.id ASC`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	return students, nil
}

func (repo classroomRepository) AddMember(ctx context.Context, classID, studentID int) error {
	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO class_students (class_id, student_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", classID, studentID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			// the class or the student went away in between
			return classroom.ErrStudentNotFound
		}
		return errors.Wrap(err, "adding class member")
	}
	return nil
}

func (repo classroomRepository) RemoveMember(ctx context.Context, classID, studentID int) error {
	_, err := repo.db.ExecContext(ctx,
		"DELETE FROM class_students WHERE class_id = $1 AND student_id = $2", classID, studentID)
	return errors.Wrap(err, "removing class member")
}
