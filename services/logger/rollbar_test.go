package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), &core.Config{Env: "TEST"})
	logger.Enable(true) // stays off without a token
	assert.Empty(t, rollbar.Token())

	auth := core.AuthContext{ProfessorID: 7, ProfessorName: "Alice"}
	logger.Error("saving class", errors.New("boom"), map[string]interface{}{"classId": 3}, auth)

	out := buf.String()
	assert.Contains(t, out, "TEST : saving class\n")
	assert.Contains(t, out, "TEST : boom\n")
	assert.Contains(t, out, "classId:3")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), &core.Config{Env: "TEST"})
	err := errors.New("boom")

	args := logger.prepare("msg", []interface{}{core.AuthContext{ProfessorID: 1}, err, core.AuthContext{ProfessorID: 2}})
	assert.Equal(t, []interface{}{"msg", err}, args, "auth contexts are not reported as data")
}
