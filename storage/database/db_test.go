package database

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

func TestURL(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{
		Host:          "db",
		Port:          "5432",
		User:          "voce",
		Password:      "p@ss word",
		AdminUser:     "postgres",
		AdminPassword: "root",
	}}

	assert.Equal(t, "postgres://voce:p%40ss%20word@db:5432/voce?sslmode=require&timezone=utc", URL("voce", false, conf))
	assert.Equal(t, "postgres://postgres:root@db:5432/postgres?sslmode=require&timezone=utc", URL("postgres", true, conf))

	conf.Database.DisableTLS = true
	conf.Database.AdminUser = ""
	assert.Equal(t, "postgres://voce:p%40ss%20word@db:5432/postgres?sslmode=disable&timezone=utc", URL("postgres", true, conf))
}

// flakyDB answers pings with an error until it has been pinged failures times.
type flakyDB struct {
	core.DBExecutor
	failures int
	pings    int
}

func (db *flakyDB) PingContext(context.Context) error {
	db.pings++
	if db.pings <= db.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestPing(t *testing.T) {
	db := &flakyDB{failures: 2}
	assert.NoError(t, Ping(context.Background(), db))
	assert.Equal(t, 3, db.pings)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	db = &flakyDB{failures: 100}
	err := Ping(ctx, db)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Equal(t, 1, db.pings)
}
