package notify

import (
	"html/template"
	"io"
)

var toastTmpl = template.Must(template.New("toast").Parse(`{{define "toasts"}}{{range .Toasts}}
<div id="toast-{{.ID}}" class="toast align-items-center text-white {{.Class}} border-0" role="alert" aria-live="assertive" aria-atomic="true" data-autohide-ms="{{.DelayMs}}" data-remove-on-hidden>
  <div class="d-flex">
    <div class="toast-body"><i class="fas {{.Icon}} me-2"></i>{{.Message}}</div>
    <button type="button" class="btn-close btn-close-white me-2 m-auto" data-bs-dismiss="toast" aria-label="{{$.CloseLabel}}"></button>
  </div>
</div>{{end}}{{end}}
{{define "oob"}}{{if .Toasts}}<div hx-swap-oob="beforeend:#{{.Container}}">{{template "toasts" .}}
</div>{{end}}{{end}}`))

// Render writes toasts as one out-of-band fragment appending to the toast container.
// Nothing is written when toasts is empty.
func Render(w io.Writer, closeLabel string, toasts ...Toast) error {
	return toastTmpl.ExecuteTemplate(w, "oob", view(closeLabel, toasts))
}

// RenderInline writes the toast elements alone, for pages that render the container themselves.
func RenderInline(w io.Writer, closeLabel string, toasts ...Toast) error {
	return toastTmpl.ExecuteTemplate(w, "toasts", view(closeLabel, toasts))
}

func view(closeLabel string, toasts []Toast) map[string]any {
	return map[string]any{
		"Container":  ContainerID,
		"CloseLabel": closeLabel,
		"Toasts":     toasts,
	}
}
