package fleet

import (
	"strings"

	"github.com/five82/flotilla/internal/orchestrator"
)

// FilterAll is the option value that disables a status or template constraint.
const FilterAll = "all"

// Filter narrows the container list. Empty fields and FilterAll impose no
// constraint.
type Filter struct {
	Search   string
	Status   string
	Template string
}

// Active reports whether the filter hides anything.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || constrains(f.Status) || constrains(f.Template)
}

func constrains(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && !strings.EqualFold(v, FilterAll)
}

// Visible returns the containers matching f, in fetch order. The
// search is a case-insensitive substring match over the short id, template
// name and tenant id.
func Visible(containers []orchestrator.Container, f Filter) []orchestrator.Container {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	status := strings.TrimSpace(f.Status)
	template := strings.TrimSpace(f.Template)

	out := make([]orchestrator.Container, 0, len(containers))
	for _, c := range containers {
		if constrains(status) && orchestrator.ParseState(status) != c.State {
			continue
		}
		if constrains(template) && c.TemplateID != template {
			continue
		}
		if needle != "" && !matches(c, needle) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matches(c orchestrator.Container, needle string) bool {
	for _, field := range []string{c.DisplayID(), c.TemplateName, c.TenantID} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// StatusOptions lists the values offered by the status filter.
func StatusOptions() []string {
	opts := make([]string, 0, len(orchestrator.States)+1)
	opts = append(opts, FilterAll)
	for _, s := range orchestrator.States {
		opts = append(opts, string(s))
	}
	return opts
}

// TemplateOption is one entry of the template filter.
type TemplateOption struct {
	ID   string
	Name string
}

// TemplateOptions lists the template filter entries for a catalog, led by FilterAll.
func TemplateOptions(templates []orchestrator.Template) []TemplateOption {
	opts := []TemplateOption{{ID: FilterAll, Name: "All templates"}}
	for _, t := range templates {
		if t.ID == "" {
			continue
		}
		name := t.Name
		if name == "" {
			name = t.ID
		}
		opts = append(opts, TemplateOption{ID: t.ID, Name: name})
	}
	return opts
}
