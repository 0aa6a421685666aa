// Package export turns stored responses into interchange formats: a CSV
// sheet for analysts and an OpenAPI schema describing the response payload.
package export

import (
	"fmt"
	"strings"

	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
	"github.com/formweave/formweave/pkg/store"
)

// ResponsesCSV renders every response for a job as one CSV document. Columns
// are fixed metadata followed by one answer and one notes column per
// template field, in template order, so exports from different backends line
// up cell for cell.
func ResponsesCSV(tmpl *schema.Template, responses []store.Response) (string, error) {
	if tmpl == nil {
		return "", fmt.Errorf("export: template is required")
	}

	var sb strings.Builder

	header := []string{"response_id", "user_id", "status", "submitted_at", "template_version"}
	for _, f := range tmpl.Fields {
		header = append(header, f.Label, f.Label+" (Notes)")
	}
	writeRecord(&sb, header)

	for _, resp := range responses {
		submitted := ""
		if resp.SubmittedAt != nil {
			submitted = resp.SubmittedAt.Format("2006-01-02 15:04:05")
		}
		record := []string{
			resp.ID,
			resp.UserID,
			string(resp.Status),
			submitted,
			fmt.Sprintf("%d", resp.TemplateVersion),
		}
		for _, f := range tmpl.Fields {
			record = append(record, resp.Data[f.ID], resp.Data[session.NoteKey(f.ID)])
		}
		writeRecord(&sb, record)
	}

	return sb.String(), nil
}

func writeRecord(sb *strings.Builder, record []string) {
	for i, cell := range record {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(escapeCell(cell))
	}
	sb.WriteString("\r\n")
}

// escapeCell quotes a cell when it contains a comma, quote, or newline, with
// embedded quotes doubled. The output round-trips through the schema parser's
// record scanner.
func escapeCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
