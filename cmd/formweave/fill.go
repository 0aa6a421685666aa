package main

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/formweave/formweave/pkg/render"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// ErrAborted is returned when the user interrupts the fill flow.
var ErrAborted = errors.New("fill aborted")

// promptDriver abstracts the terminal prompts so the fill flow can be tested
// without a real terminal.
type promptDriver interface {
	Input(ctx context.Context, message, def, help string) (string, error)
	Select(ctx context.Context, message string, options []string, def, help string) (string, error)
	TextArea(ctx context.Context, message, def, help string) (string, error)
}

// runFill walks the template top to bottom, prompting for each visible field
// and committing every answer through the session so skip rules hide fields
// as soon as their trigger value lands. Returns the response data and any
// validation findings left at the end.
func runFill(ctx context.Context, driver promptDriver, tmpl *schema.Template) (session.ResponseData, []render.ValidationError, error) {
	sess := session.New(tmpl, nil, session.Config{})

	for _, f := range tmpl.Fields {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if sess.Hidden().Has(f.ID) {
			continue
		}

		message := f.Label
		if f.Required {
			message += " *"
		}

		var answer string
		var err error
		switch f.Type {
		case schema.FieldTypeDropdown, schema.FieldTypeRadio:
			options := f.Options
			if !f.Required {
				options = append([]string{""}, options...)
			}
			answer, err = driver.Select(ctx, message, options, sess.Value(f.ID), f.Help)
		case schema.FieldTypeTextarea:
			answer, err = driver.TextArea(ctx, message, sess.Value(f.ID), f.Help)
		default:
			answer, err = driver.Input(ctx, message, sess.Value(f.ID), f.Help)
		}
		if err != nil {
			return nil, nil, err
		}
		sess.SetValue(f.ID, answer)
	}

	report := render.Evaluate(sess)
	return sess.Snapshot(), report.Errors, nil
}

type surveyDriver struct{}

func newSurveyDriver() promptDriver {
	return &surveyDriver{}
}

func (d *surveyDriver) Input(ctx context.Context, message, def, help string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{Message: message, Default: def, Help: help}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Select(ctx context.Context, message string, options []string, def, help string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{Message: message, Options: options, Help: help}
	for _, opt := range options {
		if opt == def {
			prompt.Default = def
			break
		}
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, message, def, help string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{Message: message, Default: def, Help: help}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
