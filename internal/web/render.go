package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
	"datep": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006 15:04")
	},
	"statuses": func() []domain.OrderStatus {
		return []domain.OrderStatus{domain.OrderPending, domain.OrderShipped, domain.OrderDelivered, domain.OrderCanceled}
	},
	"statusLabel": func(s domain.OrderStatus) string {
		switch s {
		case domain.OrderPending:
			return "Pending"
		case domain.OrderShipped:
			return "Shipped"
		case domain.OrderDelivered:
			return "Delivered"
		case domain.OrderCanceled:
			return "Canceled"
		}
		return string(s)
	},
	"stars": func(r *int) string {
		if r == nil {
			return ""
		}
		out := make([]rune, 0, 5)
		for i := 1; i <= 5; i++ {
			if i <= *r {
				out = append(out, '★')
			} else {
				out = append(out, '☆')
			}
		}
		return string(out)
	},
}

// Renderer implements gin's render.HTMLRender with one template set per page,
// each made of the shared layout plus the page's content block.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, p := range Pages() {
		t, err := template.New(string(p)).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+string(p)+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", p, err)
		}
		r.pages[string(p)] = t
	}
	return r, nil
}

// Instance renders the named page inside the layout. Unknown names fall back
// to the NotFound page.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages[string(PageNotFound)]
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}
