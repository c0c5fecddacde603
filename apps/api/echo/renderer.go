package echoapi

import (
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
	appfs "github.com/gualvesx/V.O.C.E.v2-SenaiEdition/fs"
)

const baseTemplate = "base.html"

var pageTemplates = []string{"landing", "login", "cadastro", "dashboard", "perfil"}

// templateRenderer renders every page inside the base layout.
type templateRenderer struct {
	appName string
	pages   map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil)

func newTemplateRenderer(fsys fs.FS, appName string) (*templateRenderer, error) {
	r := &templateRenderer{appName: appName, pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, page := range pageTemplates {
		tmpl, err := template.New(baseTemplate).ParseFS(fsys,
			path.Join(appfs.TemplatesDir, baseTemplate),
			path.Join(appfs.TemplatesDir, page+".html"),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s template", page)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	if pd, ok := data.(*pageData); ok && pd.AppName == "" {
		pd.AppName = r.appName
	}
	return tmpl.ExecuteTemplate(w, baseTemplate, data)
}

// pageData is handed to every page template. Pages only read the fields they need.
type pageData struct {
	AppName       string
	Title         string
	IsLoggedIn    bool
	ProfessorName string
	Error         string
	Message       string
	Success       bool

	// forms
	Username string
	FullName string

	// dashboard
	Classes    []classroom.Class
	Categories []string
}
