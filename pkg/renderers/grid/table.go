package grid

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/formweave/formweave/pkg/schema"
)

// renderTable emits the spreadsheet body. Collapsed and skip-hidden rows
// stay in the markup with state classes so toggling is a class flip, not a
// rebuild.
func (r *Renderer) renderTable(tmpl *schema.Template) string {
	helpColumn := tmpl.HelpDisplay == schema.HelpDisplayColumn

	var sb strings.Builder
	sb.WriteString(`<table class="grid-table">` + "\n<thead>\n<tr>")
	sb.WriteString(`<th class="grid-col-question">Question</th>`)
	if helpColumn {
		sb.WriteString(`<th class="grid-col-help">Help</th>`)
	}
	sb.WriteString(`<th class="grid-col-answer">Answer</th>`)
	sb.WriteString(`<th class="grid-col-notes">Notes</th>`)
	sb.WriteString("</tr>\n</thead>\n<tbody>\n")

	columns := 3
	if helpColumn {
		columns = 4
	}
	for _, row := range Rows(tmpl) {
		if row.Header {
			sb.WriteString(r.renderHeaderRow(row, columns))
		} else {
			sb.WriteString(r.renderQuestionRow(row, helpColumn))
		}
	}

	sb.WriteString("</tbody>\n</table>\n")
	return sb.String()
}

func (r *Renderer) renderHeaderRow(row Row, columns int) string {
	completion := r.sess.Completion(row.Group)

	indicator := "▼"
	if r.collapsed[row.Group] {
		indicator = "▶"
	}
	badgeClass := "group-badge"
	if completion.Complete {
		badgeClass += " group-badge-complete"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<tr class="grid-group-row" data-row-id=%q data-group=%q>`,
		html.EscapeString(row.ID), html.EscapeString(row.Group)))
	sb.WriteString(fmt.Sprintf(`<td colspan="%d"><span class="group-toggle">%s</span> %s <span class=%q>%d/%d</span></td>`,
		columns, indicator, html.EscapeString(row.Group), badgeClass, completion.Filled, completion.Total))
	sb.WriteString("</tr>\n")
	return sb.String()
}

func (r *Renderer) renderQuestionRow(row Row, helpColumn bool) string {
	f := row.Field

	classes := []string{"grid-row"}
	if r.sess.Hidden().Has(f.ID) {
		classes = append(classes, "grid-row-hidden")
	}
	if row.Group != "" && r.collapsed[row.Group] {
		classes = append(classes, "grid-row-collapsed")
	}
	if r.invalid[f.ID] {
		classes = append(classes, "grid-row-invalid")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<tr class=%q data-row-id=%q>`+"\n",
		strings.Join(classes, " "), html.EscapeString(f.ID)))

	sb.WriteString(`<td class="grid-cell-question">`)
	sb.WriteString(html.EscapeString(f.Label))
	if f.Required {
		sb.WriteString(`<span class="field-required">*</span>`)
	}
	if !helpColumn && f.Help != "" {
		sb.WriteString(fmt.Sprintf(` <span class="field-help-icon" title=%q>?</span>`, r.sanitizer.Sanitize(f.Help)))
	}
	sb.WriteString("</td>\n")

	if helpColumn {
		sb.WriteString(fmt.Sprintf(`<td class="grid-cell-help">%s</td>`+"\n", r.sanitizer.Sanitize(f.Help)))
	}

	sb.WriteString(`<td class="grid-cell-answer">` + r.renderCell(f) + "</td>\n")
	sb.WriteString(`<td class="grid-cell-notes">` + r.renderNoteCell(f) + "</td>\n")
	sb.WriteString("</tr>\n")
	return sb.String()
}

func (r *Renderer) renderCell(f schema.Field) string {
	value := r.sess.Value(f.ID)
	disabled := ""
	if r.sess.ReadOnly() {
		disabled = " disabled"
	}

	switch f.Type {
	case schema.FieldTypeTextarea:
		return fmt.Sprintf(`<textarea id=%q name=%q class="grid-input" rows="2"%s>%s</textarea>`,
			cellID(f.ID), html.EscapeString(f.ID), disabled, html.EscapeString(value))

	case schema.FieldTypeNumber:
		var bounds strings.Builder
		if f.MinValue != nil {
			bounds.WriteString(fmt.Sprintf(` min=%q`, strconv.FormatFloat(*f.MinValue, 'f', -1, 64)))
		}
		if f.MaxValue != nil {
			bounds.WriteString(fmt.Sprintf(` max=%q`, strconv.FormatFloat(*f.MaxValue, 'f', -1, 64)))
		}
		return fmt.Sprintf(`<input type="number" id=%q name=%q class="grid-input" value=%q%s%s>`,
			cellID(f.ID), html.EscapeString(f.ID), html.EscapeString(value), bounds.String(), disabled)

	case schema.FieldTypeDate:
		return fmt.Sprintf(`<input type="date" id=%q name=%q class="grid-input" value=%q%s>`,
			cellID(f.ID), html.EscapeString(f.ID), html.EscapeString(value), disabled)

	case schema.FieldTypeDropdown, schema.FieldTypeRadio:
		// Radio groups collapse to a dropdown in the grid; a row cell has no
		// room for a button group.
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf(`<select id=%q name=%q class="grid-input"%s>`,
			cellID(f.ID), html.EscapeString(f.ID), disabled))
		sb.WriteString(`<option value="">-- Select --</option>`)
		for _, opt := range f.Options {
			selected := ""
			if opt == value && value != "" {
				selected = " selected"
			}
			sb.WriteString(fmt.Sprintf(`<option value=%q%s>%s</option>`,
				html.EscapeString(opt), selected, html.EscapeString(opt)))
		}
		sb.WriteString("</select>")
		return sb.String()

	default:
		return fmt.Sprintf(`<input type="text" id=%q name=%q class="grid-input" value=%q%s>`,
			cellID(f.ID), html.EscapeString(f.ID), html.EscapeString(value), disabled)
	}
}

func (r *Renderer) renderNoteCell(f schema.Field) string {
	disabled := ""
	if r.sess.ReadOnly() {
		disabled = " disabled"
	}
	return fmt.Sprintf(`<input type="text" id=%q class="grid-note" value=%q%s>`,
		cellID(f.ID)+"-note", html.EscapeString(r.sess.Note(f.ID)), disabled)
}

func cellID(fieldID string) string {
	return "cell-" + fieldID
}
