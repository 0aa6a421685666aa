// Command formweave works with CSV questionnaire schemas from the terminal:
// validate a schema, preview its rendered form, fill it interactively, or
// emit a starter schema to adapt.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/formweave/formweave/pkg/orchestrator"
	"github.com/formweave/formweave/pkg/schema"
)

const usage = `usage: formweave <command> [flags]

commands:
  parse     parse a schema and write the template as JSON
  validate  parse a schema and report findings
  preview   render a schema to HTML
  fill      answer a schema interactively and write the response data
  example   write the starter schema CSV
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "preview":
		err = runPreview(ctx, os.Args[2:])
	case "fill":
		err = runFillCommand(ctx, os.Args[2:])
	case "example":
		err = runExample(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("formweave: %v", err)
	}
}

func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema CSV path")
	jobID := fs.String("job", "job-preview", "job id")
	title := fs.String("title", "Preview", "form title")
	output := fs.String("output", "", "template JSON output file (stdout if empty)")
	fs.Parse(args)

	text, err := readSchema(*schemaPath)
	if err != nil {
		return err
	}
	fields, warnings, err := schema.ParseFields(text)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	tmpl := schema.New(*jobID, *title, fields)
	payload, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(*output, append(payload, '\n'))
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema CSV path")
	jobID := fs.String("job", "job-preview", "job id")
	title := fs.String("title", "Preview", "form title")
	fs.Parse(args)

	text, err := readSchema(*schemaPath)
	if err != nil {
		return err
	}

	fields, warnings, err := schema.ParseFields(text)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}

	tmpl := schema.New(*jobID, *title, fields)
	report := schema.Validate(tmpl)
	if !report.Valid {
		for _, msg := range report.Errors {
			fmt.Printf("error: %s\n", msg)
		}
		return fmt.Errorf("schema is invalid (%d errors)", len(report.Errors))
	}

	fmt.Printf("ok: %d fields, %d groups, %d warnings\n", len(tmpl.Fields), len(tmpl.Groups), len(warnings))
	return nil
}

func runPreview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema CSV path")
	jobID := fs.String("job", "job-preview", "job id")
	title := fs.String("title", "Preview", "form title")
	backend := fs.String("backend", "standard", "render backend (standard, grid)")
	output := fs.String("output", "", "output file (stdout if empty)")
	fs.Parse(args)

	text, err := readSchema(*schemaPath)
	if err != nil {
		return err
	}

	gen := orchestrator.New()
	html, err := gen.Generate(ctx, orchestrator.Request{
		CSV:     text,
		JobID:   *jobID,
		Title:   *title,
		Backend: *backend,
	})
	if err != nil {
		return err
	}
	return writeOutput(*output, html)
}

func runFillCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema CSV path")
	jobID := fs.String("job", "job-fill", "job id")
	title := fs.String("title", "Form", "form title")
	output := fs.String("output", "", "response JSON output file (stdout if empty)")
	fs.Parse(args)

	text, err := readSchema(*schemaPath)
	if err != nil {
		return err
	}
	fields, _, err := schema.ParseFields(text)
	if err != nil {
		return err
	}
	tmpl := schema.New(*jobID, *title, fields)
	if report := schema.Validate(tmpl); !report.Valid {
		return fmt.Errorf("schema is invalid: %s", report.Errors[0])
	}

	data, findings, err := runFill(ctx, newSurveyDriver(), tmpl)
	if err != nil {
		return err
	}
	for _, f := range findings {
		fmt.Fprintf(os.Stderr, "unresolved: %s: %s\n", f.Label, f.Message)
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(*output, append(payload, '\n'))
}

func runExample(args []string) error {
	fs := flag.NewFlagSet("example", flag.ExitOnError)
	output := fs.String("output", "", "output file (stdout if empty)")
	fs.Parse(args)

	return writeOutput(*output, []byte(schema.ExampleCSV+"\n"))
}

func readSchema(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("-schema is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	return string(data), nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("written to %s\n", path)
	return nil
}
