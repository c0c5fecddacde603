package core

// AuthContext identifies the professor on whose behalf an operation runs.
// It is extracted from the session once per request and handed to every protected service call.
type AuthContext struct {
	ProfessorID   int
	ProfessorName string
}

func (a AuthContext) IsAuthenticated() bool { return a.ProfessorID > 0 }
