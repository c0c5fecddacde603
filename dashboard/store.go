package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
)

var (
	ErrNoActiveClass    = errors.New("nenhuma turma selecionada")
	ErrUnknownClass     = errors.New("turma desconhecida")
	ErrUnknownStudent   = errors.New("aluno desconhecido")
	ErrNotEditing       = errors.New("nenhum aluno em edição")
	ErrEmptyClassName   = errors.New("o nome da turma não pode estar vazio")
	ErrEmptyStudentName = errors.New("o nome do aluno é obrigatório")

	// ErrSuperseded is returned by a read whose result was discarded because a later read was requested.
	ErrSuperseded = errors.New("leitura substituída por outra mais recente")
)

// API is the part of the server API the dashboard uses. *client.Client implements it.
type API interface {
	Classes(ctx context.Context) ([]classroom.Class, error)
	CreateClass(ctx context.Context, name string) (int, error)
	RenameClass(ctx context.Context, classID int, name string) error
	DeleteClass(ctx context.Context, classID int) error
	Roster(ctx context.Context, classID int) ([]classroom.Student, error)
	AddStudent(ctx context.Context, classID, studentID int) error
	RemoveStudent(ctx context.Context, classID, studentID int) error
	Students(ctx context.Context) ([]classroom.Student, error)
	CreateStudent(ctx context.Context, in classroom.StudentInput) (classroom.Student, error)
	UpdateStudent(ctx context.Context, studentID int, in classroom.StudentInput) error
	Summary(ctx context.Context, f activity.Filter) ([]activity.UserSummary, error)
	Logs(ctx context.Context, f activity.Filter) ([]activity.LogEntry, error)
}

// Renderer receives the views after every committed change. It is called with the store locked
// and must not call back into the store.
type Renderer interface {
	Render(Views)
}

type RendererFunc func(Views)

func (f RendererFunc) Render(v Views) { f(v) }

type Store struct {
	api      API
	renderer Renderer

	mutex  sync.Mutex
	state  State
	panels Panels

	// want is what the latest read asks for. It runs ahead of state while a read is in flight.
	want intent
	// reads are numbered; only the latest one may commit
	gen int
}

// intent is the class and filter the dashboard should show.
type intent struct {
	classID   *int
	className string
	filter    activity.Filter
}

func (in intent) clone() intent {
	if in.classID != nil {
		id := *in.classID
		in.classID = &id
	}
	in.filter.ClassID = in.classID
	return in
}

func intentOf(st State) intent {
	return intent{classID: st.ActiveClassID, className: st.ActiveClassName, filter: st.Filter}.clone()
}

func NewStore(api API, renderer Renderer) *Store {
	if renderer == nil {
		renderer = RendererFunc(func(Views) {})
	}
	return &Store{
		api:      api,
		renderer: renderer,
		state:    State{ChartType: ChartBar},
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state.clone()
}

// Views returns the views of the current state.
func (s *Store) Views() Views {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return Render(s.state, s.panels)
}

// commit applies mutate to the state and re-renders every view. s.mutex must be held.
func (s *Store) commit(mutate func(st *State)) {
	if mutate != nil {
		mutate(&s.state)
	}
	s.state.Filter.ClassID = s.state.ActiveClassID
	s.renderer.Render(Render(s.state, s.panels))
}

func (s *Store) snapshot() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state.clone()
}

// Init loads the classes, then everything else for "no class selected".
func (s *Store) Init(ctx context.Context) error {
	classes, err := s.api.Classes(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching classes")
	}
	return s.sync(ctx, func(in *intent) error {
		in.classID = nil
		in.className = ""
		return nil
	}, func(st *State) { st.Classes = classes })
}

// Refresh refetches the students, the roster and the panels of the current class and filter.
func (s *Store) Refresh(ctx context.Context) error {
	return s.sync(ctx, nil, nil)
}

// readResult is everything one read fetches.
type readResult struct {
	students []classroom.Student
	roster   []classroom.Student
	panels   Panels
}

func (s *Store) fetch(ctx context.Context, in intent) (readResult, error) {
	var d readResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.students, err = s.api.Students(gctx)
		return errors.Wrap(err, "fetching students")
	})
	if in.classID != nil {
		classID := *in.classID
		g.Go(func() (err error) {
			d.roster, err = s.api.Roster(gctx, classID)
			return errors.Wrap(err, "fetching roster")
		})
	}
	g.Go(func() (err error) {
		d.panels.Summary, err = s.api.Summary(gctx, in.filter)
		return errors.Wrap(err, "fetching summary")
	})
	g.Go(func() (err error) {
		d.panels.Logs, err = s.api.Logs(gctx, in.filter)
		return errors.Wrap(err, "fetching logs")
	})
	return d, g.Wait()
}

// sync applies change to the wanted class and filter, then fetches everything derived from them: the students,
// the roster and the panels. All of it is committed at once, together with also.
//
// A read commits only if no other read was requested in the meantime, otherwise it returns ErrSuperseded.
// The later read starts from the intent of the earlier ones, so a filter change does not undo a class switch.
// When the latest read fails, the intent goes back to the committed state.
func (s *Store) sync(ctx context.Context, change func(in *intent) error, also func(st *State)) error {
	s.mutex.Lock()
	in := s.want.clone()
	if change != nil {
		if err := change(&in); err != nil {
			s.mutex.Unlock()
			return err
		}
		in = in.clone()
	}
	s.want = in
	s.gen++
	gen := s.gen
	s.mutex.Unlock()

	d, err := s.fetch(ctx, in)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if gen != s.gen {
		// also only holds the caller's own changes, never read data
		if also != nil && err == nil {
			s.commit(also)
		}
		return ErrSuperseded
	}
	if err != nil {
		s.want = intentOf(s.state)
		return err
	}
	s.panels = d.panels
	s.commit(func(st *State) {
		st.ActiveClassID = in.classID
		st.ActiveClassName = in.className
		st.Filter = in.filter
		st.AllStudents = d.students
		st.StudentsInClass = d.roster
		if also != nil {
			also(st)
		}
	})
	return nil
}

// SelectClass makes classID the active class (nil to select none).
func (s *Store) SelectClass(ctx context.Context, classID *int) error {
	return s.sync(ctx, func(in *intent) error {
		if classID == nil {
			in.classID = nil
			in.className = ""
			return nil
		}
		class, ok := s.state.class(*classID)
		if !ok {
			return ErrUnknownClass
		}
		id := class.ID
		in.classID = &id
		in.className = class.Name
		return nil
	}, nil)
}

func (s *Store) activeClass() (int, error) {
	st := s.snapshot()
	if st.ActiveClassID == nil {
		return 0, ErrNoActiveClass
	}
	return *st.ActiveClassID, nil
}

// AddStudent adds a student to the active class.
func (s *Store) AddStudent(ctx context.Context, studentID int) error {
	classID, err := s.activeClass()
	if err != nil {
		return err
	}
	if err := s.api.AddStudent(ctx, classID, studentID); err != nil {
		return errors.Wrap(err, "adding student")
	}
	return s.Refresh(ctx)
}

// RemoveStudent removes a student from the active class.
func (s *Store) RemoveStudent(ctx context.Context, studentID int) error {
	classID, err := s.activeClass()
	if err != nil {
		return err
	}
	if err := s.api.RemoveStudent(ctx, classID, studentID); err != nil {
		return errors.Wrap(err, "removing student")
	}
	return s.Refresh(ctx)
}

func cleanStudentInput(in classroom.StudentInput) (classroom.StudentInput, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.CPF = strings.TrimSpace(in.CPF)
	in.PCID = strings.TrimSpace(in.PCID)
	if in.FullName == "" {
		return in, ErrEmptyStudentName
	}
	return in, nil
}

// CreateStudent registers a new student. Its identifiers may name logs already received.
func (s *Store) CreateStudent(ctx context.Context, in classroom.StudentInput) (classroom.Student, error) {
	in, err := cleanStudentInput(in)
	if err != nil {
		return classroom.Student{}, err
	}
	student, err := s.api.CreateStudent(ctx, in)
	if err != nil {
		return classroom.Student{}, errors.Wrap(err, "creating student")
	}
	return student, s.Refresh(ctx)
}

// EditStudent opens the student for edition.
func (s *Store) EditStudent(studentID int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	student, ok := s.state.student(studentID)
	if !ok {
		return ErrUnknownStudent
	}
	s.commit(func(st *State) { st.EditingStudent = &student })
	return nil
}

func (s *Store) CancelEdit() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.commit(func(st *State) { st.EditingStudent = nil })
}

// SaveStudent updates the student being edited and closes the edition.
// New identifiers change which logs belong to the student, so the panels are refetched too.
func (s *Store) SaveStudent(ctx context.Context, in classroom.StudentInput) error {
	st := s.snapshot()
	if st.EditingStudent == nil {
		return ErrNotEditing
	}
	in, err := cleanStudentInput(in)
	if err != nil {
		return err
	}
	if err := s.api.UpdateStudent(ctx, st.EditingStudent.ID, in); err != nil {
		return errors.Wrap(err, "updating student")
	}
	return s.sync(ctx, nil, func(st *State) { st.EditingStudent = nil })
}

// CreateClass creates a class, reloads the classes and selects the new one.
func (s *Store) CreateClass(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyClassName
	}
	classID, err := s.api.CreateClass(ctx, name)
	if err != nil {
		return 0, errors.Wrap(err, "creating class")
	}
	if err := s.reloadClasses(ctx, nil); err != nil {
		return 0, err
	}
	return classID, s.SelectClass(ctx, &classID)
}

func (s *Store) reloadClasses(ctx context.Context, also func(st *State)) error {
	classes, err := s.api.Classes(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching classes")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.commit(func(st *State) {
		st.Classes = classes
		if also != nil {
			also(st)
		}
	})
	return nil
}

// RenameClass renames the active class.
func (s *Store) RenameClass(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyClassName
	}
	classID, err := s.activeClass()
	if err != nil {
		return err
	}
	if err := s.api.RenameClass(ctx, classID, name); err != nil {
		return errors.Wrap(err, "renaming class")
	}
	return s.reloadClasses(ctx, func(st *State) {
		class, ok := st.class(classID)
		if !ok {
			return
		}
		if st.ActiveClassID != nil && *st.ActiveClassID == classID {
			st.ActiveClassName = class.Name
		}
		if s.want.classID != nil && *s.want.classID == classID {
			s.want.className = class.Name
		}
	})
}

// DeleteClass deletes the active class and goes back to "no class selected".
func (s *Store) DeleteClass(ctx context.Context) error {
	classID, err := s.activeClass()
	if err != nil {
		return err
	}
	if err := s.api.DeleteClass(ctx, classID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	if err := s.reloadClasses(ctx, nil); err != nil {
		return err
	}
	return s.SelectClass(ctx, nil)
}

// SetChartType changes the chart; the data does not change.
func (s *Store) SetChartType(t ChartType) error {
	if _, err := ParseChartType(string(t)); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.commit(func(st *State) { st.ChartType = t })
	return nil
}

// SetFilter changes the search, category and alerts-only filters and refreshes the panels.
// The class filter follows the class last selected.
func (s *Store) SetFilter(ctx context.Context, search, category string, alertsOnly bool) error {
	return s.sync(ctx, func(in *intent) error {
		in.filter.Search = strings.TrimSpace(search)
		in.filter.Category = strings.TrimSpace(category)
		in.filter.AlertsOnly = alertsOnly
		return nil
	}, nil)
}
