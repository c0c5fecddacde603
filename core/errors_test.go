package core

import (
	"database/sql"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	errThing := NewNotFoundError("thing not found")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil},
		{name: "other", err: sql.ErrNoRows},
		{name: "root", err: ErrNotFound, want: true},
		{name: "domain", err: errThing, want: true},
		{name: "wrapped domain", err: errors.Wrap(errThing, "querying"), want: true},
		{name: "wrapped root", err: errors.Wrap(ErrNotFound, "querying"), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
	assert.True(t, errors.Is(errors.Wrap(errThing, "x"), ErrNotFound))
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "", NewValidationError(nil).Error())
	assert.Equal(t, "first", NewValidationError(nil, FieldError{"a", "first"}, FieldError{"b", "second"}).Error())
	assert.Equal(t, "cause", NewValidationError(errors.New("cause"), FieldError{"a", "first"}).Error())
}

func TestShutdownError(t *testing.T) {
	err := NewShutdownError("stop")
	assert.True(t, IsShutdown(err))
	assert.True(t, IsShutdown(errors.Wrap(err, "serving")))
	assert.False(t, IsShutdown(errors.New("stop")))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Ana", CleanString("  Ana\t"))
}
