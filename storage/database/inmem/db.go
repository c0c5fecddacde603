// Package inmemdb keeps the repositories in memory. It backs the HTTP and client tests.
package inmemdb

import (
	"sync"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
)

type membership struct {
	classID, studentID int
}

// DB holds every table behind one lock, so that cross-table reads (the log/student join) are consistent.
type DB struct {
	mutex sync.RWMutex

	professorPK int
	professors  map[int]*professor.Professor

	classPK int
	classes map[int]*classroom.Class

	studentPK int
	students  map[int]*classroom.Student

	members map[membership]struct{}

	logPK int64
	logs  []activity.LogEntry
}

func NewDB() *DB {
	return &DB{
		professors: make(map[int]*professor.Professor),
		classes:    make(map[int]*classroom.Class),
		students:   make(map[int]*classroom.Student),
		members:    make(map[membership]struct{}),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.professorPK, db.classPK, db.studentPK, db.logPK = 0, 0, 0, 0
	db.professors = make(map[int]*professor.Professor)
	db.classes = make(map[int]*classroom.Class)
	db.students = make(map[int]*classroom.Student)
	db.members = make(map[membership]struct{})
	db.logs = nil
}
