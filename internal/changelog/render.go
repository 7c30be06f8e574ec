package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// templateScope is the data handed to the category and commit templates so
// they can build links without global state.
type templateScope struct {
	Repo RepoRef
	Item any
}

var templateFuncs = template.FuncMap{
	"scope": func(repo RepoRef, item any) templateScope {
		return templateScope{Repo: repo, Item: item}
	},
}

// Renderer turns a View into a markdown release section.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer loads the release templates. An empty dir selects the embedded
// set; otherwise all three templates must exist in dir.
func NewRenderer(dir string) (*Renderer, error) {
	root := template.New(TemplateRelease).Funcs(templateFuncs)

	for _, name := range TemplateNames() {
		src, err := loadTemplate(dir, name)
		if err != nil {
			return nil, err
		}

		t := root
		if name != TemplateRelease {
			t = root.New(name)
		}
		if _, err := t.Parse(string(src)); err != nil {
			return nil, &TemplateError{Name: name, Dir: dir, Err: err}
		}
	}

	return &Renderer{tmpl: root}, nil
}

func loadTemplate(dir, name string) ([]byte, error) {
	if dir == "" {
		src, err := EmbeddedTemplate(name)
		if err != nil {
			return nil, &TemplateError{Name: name, Err: err}
		}
		return src, nil
	}

	path := filepath.Join(dir, name+".tmpl")
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateError{Name: name, Dir: dir, Err: fmt.Errorf("%s not found", filepath.Base(path))}
		}
		return nil, &TemplateError{Name: name, Dir: dir, Err: err}
	}
	return src, nil
}

// Render executes the release template for v. A view without commits renders
// as the empty string so patching leaves the generated span unchanged.
func (r *Renderer) Render(v *View) (string, error) {
	if v == nil || v.IsEmpty() || v.Current == nil {
		return "", nil
	}

	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, TemplateRelease, v); err != nil {
		return "", fmt.Errorf("rendering release %s: %w", v.Tag, err)
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", nil
	}
	return out + "\n\n", nil
}
