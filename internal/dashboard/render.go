package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/xela07ax/bestcdn-board/internal/domain"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const pageTemplate = "index.html.tmpl"

// Renderer превращает ViewModel в HTML-документ.
// Результат зависит только от модели; единственный побочный канал — год в футере.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

type RendererOption func(*Renderer)

// WithClock подменяет источник текущего времени (для года в копирайте).
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		r.now = now
	}
}

func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	tmpl, err := template.New(pageTemplate).Funcs(template.FuncMap{
		"badgeClass": badgeClass,
		"tierClass":  tierClass,
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}

	r := &Renderer{tmpl: tmpl, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// page — данные шаблона: модель плюс то, что не относится к данным.
type page struct {
	ViewModel
	Year    int
	Unknown string
}

func (r *Renderer) Render(w io.Writer, vm ViewModel) error {
	p := page{
		ViewModel: vm,
		Year:      r.now().Year(),
		Unknown:   domain.UnknownTime,
	}
	if err := r.tmpl.ExecuteTemplate(w, pageTemplate, p); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func badgeClass(b domain.Badge) string {
	return "badge-" + string(b)
}

func tierClass(t domain.Tier) string {
	switch t {
	case domain.TierHigh:
		return "text-green-600"
	case domain.TierMedium:
		return "text-blue-600"
	default:
		return "text-gray-600"
	}
}
