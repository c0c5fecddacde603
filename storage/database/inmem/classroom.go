package inmemdb

import (
	"context"
	"sort"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
)

type classroomRepository struct {
	db *DB
}

var _ classroom.Repository = (*classroomRepository)(nil)

func NewClassroomRepository(db *DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func sortStudents(students []classroom.Student) {
	sort.Slice(students, func(i, j int) bool {
		if students[i].FullName != students[j].FullName {
			return students[i].FullName < students[j].FullName
		}
		return students[i].ID < students[j].ID
	})
}

// ownedClass must be called with the lock held.
func (repo *classroomRepository) ownedClass(id, professorID int) (*classroom.Class, error) {
	class, ok := repo.db.classes[id]
	if !ok || class.ProfessorID != professorID {
		return nil, classroom.ErrClassNotFound
	}
	return class, nil
}

func (repo *classroomRepository) CreateClass(_ context.Context, class classroom.Class) (classroom.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.classPK++
	class.ID = repo.db.classPK
	repo.db.classes[class.ID] = &class
	return class, nil
}

func (repo *classroomRepository) QueryClasses(_ context.Context, professorID int) ([]classroom.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]classroom.Class, 0)
	for _, c := range repo.db.classes {
		if c.ProfessorID == professorID {
			classes = append(classes, *c)
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].Name != classes[j].Name {
			return classes[i].Name < classes[j].Name
		}
		return classes[i].ID < classes[j].ID
	})
	return classes, nil
}

func (repo *classroomRepository) GetClass(_ context.Context, id, professorID int) (classroom.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	class, err := repo.ownedClass(id, professorID)
	if err != nil {
		return classroom.Class{}, err
	}
	return *class, nil
}

func (repo *classroomRepository) RenameClass(_ context.Context, id, professorID int, name string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	class, err := repo.ownedClass(id, professorID)
	if err != nil {
		return err
	}
	class.Name = name
	return nil
}

func (repo *classroomRepository) DeleteClass(_ context.Context, id, professorID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, err := repo.ownedClass(id, professorID); err != nil {
		return err
	}
	delete(repo.db.classes, id)
	for m := range repo.db.members {
		if m.classID == id {
			delete(repo.db.members, m)
		}
	}
	return nil
}

func (repo *classroomRepository) CreateStudent(_ context.Context, student classroom.Student) (classroom.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.studentPK++
	student.ID = repo.db.studentPK
	repo.db.students[student.ID] = &student
	return student, nil
}

func (repo *classroomRepository) UpdateStudent(_ context.Context, student classroom.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.students[student.ID]
	if !ok {
		return classroom.ErrStudentNotFound
	}
	orig.FullName = student.FullName
	orig.CPF = student.CPF
	orig.PCID = student.PCID
	return nil
}

func (repo *classroomRepository) GetStudent(_ context.Context, id int) (classroom.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if student, ok := repo.db.students[id]; ok {
		return *student, nil
	}
	return classroom.Student{}, classroom.ErrStudentNotFound
}

func (repo *classroomRepository) QueryStudents(_ context.Context) ([]classroom.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]classroom.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		students = append(students, *s)
	}
	sortStudents(students)
	return students, nil
}

func (repo *classroomRepository) QueryClassStudents(_ context.Context, classID int) ([]classroom.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]classroom.Student, 0)
	for m := range repo.db.members {
		if m.classID != classID {
			continue
		}
		if s, ok := repo.db.students[m.studentID]; ok {
			students = append(students, *s)
		}
	}
	sortStudents(students)
	return students, nil
}

func (repo *classroomRepository) AddMember(_ context.Context, classID, studentID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[classID]; !ok {
		return classroom.ErrClassNotFound
	}
	if _, ok := repo.db.students[studentID]; !ok {
		return classroom.ErrStudentNotFound
	}
	repo.db.members[membership{classID: classID, studentID: studentID}] = struct{}{}
	return nil
}

func (repo *classroomRepository) RemoveMember(_ context.Context, classID, studentID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.members, membership{classID: classID, studentID: studentID})
	return nil
}
