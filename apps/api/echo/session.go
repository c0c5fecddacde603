package echoapi

import (
	"crypto/sha256"
	"io/fs"
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

const (
	authContextKey = "auth"

	sessProfessorID   = "professorId"
	sessProfessorName = "professorName"
)

// NewSessionStore returns the session store configured in conf.
// Both stores sign and encrypt the cookie with keys derived from the secret key,
// and expire sessions after conf.Session.MaxAge.
func NewSessionStore(conf *core.Config) (sessions.Store, error) {
	hashKey := sha256.Sum256([]byte("session-auth:" + conf.SecretKey))
	blockKey := sha256.Sum256([]byte("session-encrypt:" + conf.SecretKey))
	maxAge := int(conf.Session.MaxAge.Seconds())

	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   conf.Session.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	switch conf.Session.Store {
	case core.SessionStoreCookie:
		store := sessions.NewCookieStore(hashKey[:], blockKey[:])
		store.Options = opts
		store.MaxAge(maxAge)
		return store, nil
	case core.SessionStoreFilesystem:
		dir := conf.Session.Dir
		if dir != "" {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, errors.Wrapf(err, "creating session dir %s", dir)
			}
		}
		store := sessions.NewFilesystemStore(dir, hashKey[:], blockKey[:])
		store.Options = opts
		store.MaxAge(maxAge)
		return store, nil
	}
	return nil, errors.Errorf("unsupported session store %q", conf.Session.Store)
}

type sessionGate struct {
	store  sessions.Store
	name   string
	logger core.Logger
}

func newSessionGate(store sessions.Store, name string, logger core.Logger) *sessionGate {
	return &sessionGate{store: store, name: name, logger: logger}
}

// session never fails: an expired, tampered or vanished session is a fresh anonymous one.
func (g *sessionGate) session(ctx echo.Context) *sessions.Session {
	sess, err := g.store.Get(ctx.Request(), g.name)
	if err != nil {
		var cookieErr securecookie.Error
		if !(errors.As(err, &cookieErr) && cookieErr.IsDecode()) && !errors.Is(err, fs.ErrNotExist) {
			g.logger.Warn("reading session", errors.Wrap(err, "getting session"))
		}
	}
	if sess == nil {
		sess, _ = g.store.New(ctx.Request(), g.name)
	}
	return sess
}

// auth returns the identity stored in the session, which is the zero AuthContext when anonymous.
func (g *sessionGate) auth(ctx echo.Context) core.AuthContext {
	sess := g.session(ctx)
	id, _ := sess.Values[sessProfessorID].(int)
	name, _ := sess.Values[sessProfessorName].(string)
	return core.AuthContext{ProfessorID: id, ProfessorName: name}
}

// login starts a new session for the professor.
func (g *sessionGate) login(ctx echo.Context, auth core.AuthContext) error {
	sess := g.session(ctx)
	sess.ID = "" // never reuse an anonymous session id
	sess.Values = map[interface{}]interface{}{
		sessProfessorID:   auth.ProfessorID,
		sessProfessorName: auth.ProfessorName,
	}
	return errors.Wrap(sess.Save(ctx.Request(), ctx.Response()), "saving session")
}

// rename refreshes the professor name kept in the session.
func (g *sessionGate) rename(ctx echo.Context, name string) error {
	sess := g.session(ctx)
	sess.Values[sessProfessorName] = name
	return errors.Wrap(sess.Save(ctx.Request(), ctx.Response()), "saving session")
}

func (g *sessionGate) logout(ctx echo.Context) error {
	sess := g.session(ctx)
	sess.Options.MaxAge = -1
	return errors.Wrap(sess.Save(ctx.Request(), ctx.Response()), "deleting session")
}
