package standard

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/formweave/formweave/pkg/schema"
)

// renderAccordion emits one collapsible section per group label, each with a
// filled/total completion badge, in first-appearance order.
func (r *Renderer) renderAccordion(tmpl *schema.Template, groups []string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="form-accordion">` + "\n")
	for _, group := range groups {
		sb.WriteString(r.renderGroupSection(tmpl, group))
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

func (r *Renderer) renderGroupSection(tmpl *schema.Template, group string) string {
	completion := r.sess.Completion(group)

	badgeClass := "group-badge"
	if completion.Complete {
		badgeClass += " group-badge-complete"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<details class="form-group" data-group=%q open>`+"\n", html.EscapeString(group)))
	sb.WriteString(`<summary class="form-group-header">`)
	sb.WriteString(html.EscapeString(group))
	sb.WriteString(fmt.Sprintf(` <span class=%q>%d/%d</span>`, badgeClass, completion.Filled, completion.Total))
	sb.WriteString("</summary>\n")
	sb.WriteString(`<div class="form-group-body">` + "\n")
	for _, f := range tmpl.Fields {
		if f.Group == group {
			sb.WriteString(r.renderField(f))
		}
	}
	sb.WriteString("</div>\n</details>\n")
	return sb.String()
}

// renderField emits the wrapper, label, help, control, and note input for one
// field. Hidden fields still render so client toggles stay cheap; the wrapper
// carries a hidden class instead of being omitted.
func (r *Renderer) renderField(f schema.Field) string {
	classes := []string{"form-field", "form-field-" + string(f.Type)}
	if r.sess.Hidden().Has(f.ID) {
		classes = append(classes, "form-field-hidden")
	}
	if r.invalid[f.ID] {
		classes = append(classes, "form-field-invalid")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class=%q data-field-id=%q>`+"\n",
		strings.Join(classes, " "), html.EscapeString(f.ID)))

	sb.WriteString(r.renderLabel(f))
	if r.sess.Template().HelpDisplay == schema.HelpDisplayInline && f.Help != "" {
		sb.WriteString(fmt.Sprintf(`<p class="field-help">%s</p>`+"\n", r.sanitizeHelp(f.Help)))
	}
	sb.WriteString(r.renderControl(f))
	sb.WriteString(r.renderNote(f))

	sb.WriteString("</div>\n")
	return sb.String()
}

func (r *Renderer) renderLabel(f schema.Field) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<label class="field-label" for=%q>`, inputID(f.ID)))
	sb.WriteString(html.EscapeString(f.Label))
	if f.Required {
		sb.WriteString(`<span class="field-required">*</span>`)
	}
	if r.sess.Template().HelpDisplay == schema.HelpDisplayTooltip && f.Help != "" {
		sb.WriteString(fmt.Sprintf(`<span class="field-help-icon" title=%q>?</span>`, r.sanitizeHelp(f.Help)))
	}
	sb.WriteString("</label>\n")
	return sb.String()
}

func (r *Renderer) renderControl(f schema.Field) string {
	value := r.sess.Value(f.ID)
	disabled := ""
	if r.sess.ReadOnly() {
		disabled = " disabled"
	}

	switch f.Type {
	case schema.FieldTypeTextarea:
		return fmt.Sprintf(`<textarea id=%q name=%q class="field-input" rows="3"%s>%s</textarea>`+"\n",
			inputID(f.ID), html.EscapeString(f.ID), disabled, html.EscapeString(value))

	case schema.FieldTypeNumber:
		var bounds strings.Builder
		if f.MinValue != nil {
			bounds.WriteString(fmt.Sprintf(` min=%q`, formatBound(*f.MinValue)))
		}
		if f.MaxValue != nil {
			bounds.WriteString(fmt.Sprintf(` max=%q`, formatBound(*f.MaxValue)))
		}
		return fmt.Sprintf(`<input type="number" id=%q name=%q class="field-input" value=%q%s%s>`+"\n",
			inputID(f.ID), html.EscapeString(f.ID), html.EscapeString(value), bounds.String(), disabled)

	case schema.FieldTypeDate:
		return fmt.Sprintf(`<input type="date" id=%q name=%q class="field-input" value=%q%s>`+"\n",
			inputID(f.ID), html.EscapeString(f.ID), html.EscapeString(value), disabled)

	case schema.FieldTypeDropdown:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf(`<select id=%q name=%q class="field-input"%s>`+"\n",
			inputID(f.ID), html.EscapeString(f.ID), disabled))
		sb.WriteString(`<option value="">-- Select --</option>` + "\n")
		for _, opt := range f.Options {
			selected := ""
			if opt == value && value != "" {
				selected = " selected"
			}
			sb.WriteString(fmt.Sprintf(`<option value=%q%s>%s</option>`+"\n",
				html.EscapeString(opt), selected, html.EscapeString(opt)))
		}
		sb.WriteString("</select>\n")
		return sb.String()

	case schema.FieldTypeRadio:
		var sb strings.Builder
		sb.WriteString(`<div class="field-radio-group">` + "\n")
		for i, opt := range f.Options {
			checked := ""
			if opt == value && value != "" {
				checked = " checked"
			}
			id := fmt.Sprintf("%s-%d", inputID(f.ID), i)
			sb.WriteString(fmt.Sprintf(`<label class="field-radio" for=%q>`, id))
			sb.WriteString(fmt.Sprintf(`<input type="radio" id=%q name=%q value=%q%s%s> %s`,
				id, "radio-"+html.EscapeString(f.ID), html.EscapeString(opt), checked, disabled, html.EscapeString(opt)))
			sb.WriteString("</label>\n")
		}
		sb.WriteString("</div>\n")
		return sb.String()

	default:
		return fmt.Sprintf(`<input type="text" id=%q name=%q class="field-input" value=%q%s>`+"\n",
			inputID(f.ID), html.EscapeString(f.ID), html.EscapeString(value), disabled)
	}
}

func (r *Renderer) renderNote(f schema.Field) string {
	disabled := ""
	if r.sess.ReadOnly() {
		disabled = " disabled"
	}
	return fmt.Sprintf(`<input type="text" id=%q class="field-note" placeholder="Notes (optional)" value=%q%s>`+"\n",
		inputID(f.ID)+"-note", html.EscapeString(r.sess.Note(f.ID)), disabled)
}

// sanitizeHelp strips markup from author-supplied help text before it lands
// in attributes or inline paragraphs.
func (r *Renderer) sanitizeHelp(help string) string {
	return r.sanitizer.Sanitize(help)
}

func inputID(fieldID string) string {
	return "field-" + fieldID
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
