package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Required header columns. Header matching is case-insensitive.
var requiredColumns = []string{"field_id", "field_type", "label"}

// ParseError signals structurally unusable source text: a missing header,
// a missing required column, or an empty document. Row-level problems never
// produce a ParseError; they surface as Warnings instead.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "schema: " + e.Reason
}

// Warning records a non-fatal defect found while parsing a data row. The row
// number is 1-based and counts records in the source text, header included.
type Warning struct {
	Row     int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s", w.Row, w.Message)
}

// ParseFields converts CSV source text into an ordered field sequence.
//
// The first record is the header row; cells containing commas, quotes, or
// newlines must be wrapped in double quotes, with embedded quotes doubled.
// Blank records are skipped. Unrecognised field types are coerced to "text"
// with a warning rather than aborting the whole document.
func ParseFields(text string) ([]Field, []Warning, error) {
	records := splitRecords(strings.TrimSpace(text))
	if len(records) < 2 {
		return nil, nil, &ParseError{Reason: "need a header row and at least one data row"}
	}

	headers := make([]string, len(records[0]))
	for i, cell := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	for _, col := range requiredColumns {
		if !contains(headers, col) {
			return nil, nil, &ParseError{Reason: fmt.Sprintf("missing required column: %s", col)}
		}
	}

	var fields []Field
	var warnings []Warning
	for rowIdx, record := range records[1:] {
		if blankRecord(record) {
			continue
		}

		cells := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				cells[header] = strings.TrimSpace(record[i])
			} else {
				cells[header] = ""
			}
		}

		// rowIdx is zero-based over data rows; +2 accounts for the header.
		field, rowWarnings := buildField(cells, rowIdx+2)
		fields = append(fields, field)
		warnings = append(warnings, rowWarnings...)
	}

	return fields, warnings, nil
}

func buildField(cells map[string]string, row int) (Field, []Warning) {
	var warnings []Warning

	fieldType := FieldType(strings.ToLower(cells["field_type"]))
	if !ValidFieldType(fieldType) {
		warnings = append(warnings, Warning{
			Row:     row,
			Message: fmt.Sprintf("unrecognised field_type %q, defaulting to %q", cells["field_type"], FieldTypeText),
		})
		fieldType = FieldTypeText
	}

	var options []string
	for _, opt := range strings.Split(cells["options"], "|") {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}

	field := Field{
		ID:            cells["field_id"],
		Type:          fieldType,
		Label:         cells["label"],
		Help:          cells["help_text"],
		Required:      truthy(cells["required"]),
		Options:       options,
		DefaultValue:  cells["default_value"],
		SkipIf:        cells["skip_if"],
		SkipToFieldID: cells["skip_to_field_id"],
		Group:         cells["group"],
	}

	if raw := cells["item_id"]; raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			field.ItemID = &id
		} else {
			warnings = append(warnings, Warning{Row: row, Message: fmt.Sprintf("item_id %q is not an integer", raw)})
		}
	}
	field.MinValue = parseBound(cells["min_value"], "min_value", row, &warnings)
	field.MaxValue = parseBound(cells["max_value"], "max_value", row, &warnings)

	return field, warnings
}

func parseBound(raw, column string, row int, warnings *[]Warning) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*warnings = append(*warnings, Warning{Row: row, Message: fmt.Sprintf("%s %q is not numeric", column, raw)})
		return nil
	}
	return &value
}

func truthy(raw string) bool {
	switch strings.ToLower(raw) {
	case "yes", "true", "1":
		return true
	}
	return false
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// splitRecords scans the character stream into records of cells. Quoting is
// stateful: inside a quoted cell, commas and newlines are literal and a
// doubled quote decodes to a single quote character. This intentionally does
// not use encoding/csv, whose strict (or lazy) quote handling diverges from
// the tolerant behaviour templates in the field rely on: a stray quote simply
// toggles quoted mode and never fails the document.
func splitRecords(text string) [][]string {
	var records [][]string
	var record []string
	var cell strings.Builder
	inQuotes := false

	flushCell := func() {
		record = append(record, cell.String())
		cell.Reset()
	}
	flushRecord := func() {
		flushCell()
		records = append(records, record)
		record = nil
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inQuotes {
			switch {
			case ch == '"' && i+1 < len(text) && text[i+1] == '"':
				cell.WriteByte('"')
				i++
			case ch == '"':
				inQuotes = false
			default:
				cell.WriteByte(ch)
			}
			continue
		}

		switch ch {
		case '"':
			inQuotes = true
		case ',':
			flushCell()
		case '\n':
			flushRecord()
		case '\r':
			// swallowed; CRLF terminates the record at the '\n'
		default:
			cell.WriteByte(ch)
		}
	}
	flushRecord()

	return records
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
