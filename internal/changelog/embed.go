package changelog

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Template names. Each is stored as <name>.tmpl.
const (
	TemplateRelease  = "release"
	TemplateCategory = "category"
	TemplateCommit   = "commit"
)

// TemplateNames lists the templates a release section is rendered from.
func TemplateNames() []string {
	return []string{TemplateRelease, TemplateCategory, TemplateCommit}
}

// EmbeddedTemplate returns the built-in source of the named template.
func EmbeddedTemplate(name string) ([]byte, error) {
	return fs.ReadFile(embeddedTemplates, "templates/"+name+".tmpl")
}
