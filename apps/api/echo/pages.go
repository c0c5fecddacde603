package echoapi

import (
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/professor"
)

const (
	titleLanding   = "V.O.C.E - Monitorização Inteligente"
	titleLogin     = "Login - V.O.C.E"
	titleCadastro  = "Cadastro - V.O.C.E"
	titleDashboard = "Dashboard"
	titlePerfil    = "Meu Perfil"

	msgAllFieldsRequired  = "Todos os campos são obrigatórios."
	msgInvalidCredentials = "Nome de utilizador ou senha inválidos."
	msgRegistered         = "Cadastro realizado com sucesso! Pode fazer o login."
)

type pagesHandler struct {
	gate         *sessionGate
	validate     *validator.Validate
	translator   ut.Translator
	professorSvc *professor.Service
	classroomSvc *classroom.Service
	activitySvc  *activity.Service
}

func registerPages(app *echo.Echo, gate *sessionGate, opts Options) {
	h := pagesHandler{
		gate:         gate,
		validate:     opts.Validate,
		translator:   opts.Translator,
		professorSvc: opts.ProfessorSvc,
		classroomSvc: opts.ClassroomSvc,
		activitySvc:  opts.ActivitySvc,
	}

	app.GET("/", h.landing)
	app.GET("/login", h.loginForm)
	app.POST("/login", h.login)
	app.GET("/cadastro", h.registerForm)
	app.POST("/cadastro", h.register)
	app.GET("/logout", h.logout)

	app.GET("/dashboard", h.dashboard, gate.requireLogin)
	app.GET("/perfil", h.profile, gate.requireLogin)
	app.POST("/perfil", h.updateProfile, gate.requireLogin)
}

// sentence turns a validation message into a sentence.
func sentence(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(r)) + msg[size:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}

// formError flattens a validation error into the single message shown above a form.
// Missing fields take precedence over any other problem.
func (h pagesHandler) formError(err error) (string, bool) {
	var flds []core.FieldError
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, fe := range origErr {
			if fe.Tag() == "required" {
				return msgAllFieldsRequired, true
			}
		}
		flds = core.TranslateValidationErrors(origErr, h.translator)
	case *core.ValidationError:
		flds = origErr.Fields
	default:
		return "", false
	}

	msgs := make([]string, 0, len(flds))
	for _, fld := range flds {
		msgs = append(msgs, sentence(fld.Error))
	}
	return strings.Join(msgs, " "), true
}

func (h pagesHandler) landing(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "landing", &pageData{
		Title:      titleLanding,
		IsLoggedIn: h.gate.auth(ctx).IsAuthenticated(),
	})
}

func (h pagesHandler) loginForm(ctx echo.Context) error {
	if h.gate.auth(ctx).IsAuthenticated() {
		return ctx.Redirect(http.StatusFound, "/dashboard")
	}
	return ctx.Render(http.StatusOK, "login", &pageData{
		Title:   titleLogin,
		Message: ctx.QueryParam("message"),
	})
}

func (h pagesHandler) login(ctx echo.Context) error {
	var creds professor.Credentials
	_ = bindBody(ctx, &creds) // a malformed body is just an empty form

	if err := creds.Validate(h.validate); err != nil {
		return ctx.Render(http.StatusBadRequest, "login", &pageData{Title: titleLogin, Error: msgAllFieldsRequired, Username: creds.Username})
	}

	prof, err := h.professorSvc.Authenticate(ctx.Request().Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Cause(err) == professor.ErrInvalidCredentials {
			return ctx.Render(http.StatusUnauthorized, "login", &pageData{Title: titleLogin, Error: msgInvalidCredentials, Username: creds.Username})
		}
		return errors.Wrap(err, "authenticating professor")
	}

	if err := h.gate.login(ctx, prof.Auth()); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, "/dashboard")
}

func (h pagesHandler) registerForm(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "cadastro", &pageData{Title: titleCadastro})
}

func (h pagesHandler) register(ctx echo.Context) error {
	var np professor.NewProfessor
	_ = bindBody(ctx, &np)

	rerender := func(msg string) error {
		return ctx.Render(http.StatusBadRequest, "cadastro", &pageData{
			Title:    titleCadastro,
			Error:    msg,
			Username: np.Username,
			FullName: np.FullName,
		})
	}

	if err := np.Validate(h.validate); err != nil {
		if msg, ok := h.formError(err); ok {
			return rerender(msg)
		}
		return errors.Wrap(err, "validating professor")
	}

	if _, err := h.professorSvc.Register(ctx.Request().Context(), np); err != nil {
		if msg, ok := h.formError(err); ok {
			return rerender(msg)
		}
		return errors.Wrap(err, "registering professor")
	}

	return ctx.Redirect(http.StatusFound, "/login?message="+url.QueryEscape(msgRegistered))
}

func (h pagesHandler) logout(ctx echo.Context) error {
	if err := h.gate.logout(ctx); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, "/")
}

func (h pagesHandler) dashboard(ctx echo.Context) error {
	auth := getAuthContext(ctx)
	classes, err := h.classroomSvc.QueryClasses(ctx.Request().Context(), auth)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	categories, err := h.activitySvc.Categories(ctx.Request().Context(), auth)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "dashboard", &pageData{
		Title:         titleDashboard,
		IsLoggedIn:    true,
		ProfessorName: auth.ProfessorName,
		Classes:       classes,
		Categories:    categories,
	})
}

func (h pagesHandler) profile(ctx echo.Context) error {
	auth := getAuthContext(ctx)
	prof, err := h.professorSvc.GetByID(ctx.Request().Context(), auth.ProfessorID)
	if err != nil {
		if core.IsNotFound(err) { // deleted behind our back
			return ctx.Redirect(http.StatusFound, "/logout")
		}
		return errors.Wrap(err, "getting professor")
	}
	return ctx.Render(http.StatusOK, "perfil", &pageData{
		Title:         titlePerfil,
		IsLoggedIn:    true,
		ProfessorName: auth.ProfessorName,
		Username:      prof.Username,
		FullName:      prof.FullName,
		Success:       ctx.QueryParam("success") == "true",
	})
}

func (h pagesHandler) updateProfile(ctx echo.Context) error {
	var up professor.UpdateProfile
	_ = bindBody(ctx, &up)
	if err := up.Validate(h.validate); err != nil {
		return ctx.Redirect(http.StatusFound, "/perfil")
	}

	prof, err := h.professorSvc.UpdateProfile(ctx.Request().Context(), getAuthContext(ctx), up)
	if err != nil {
		if core.IsNotFound(err) {
			return ctx.Redirect(http.StatusFound, "/logout")
		}
		return errors.Wrap(err, "updating profile")
	}

	if err := h.gate.rename(ctx, prof.FullName); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, "/perfil?success=true")
}
