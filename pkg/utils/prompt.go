package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/picogrid/param-sweep/pkg/form"
	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
	"github.com/picogrid/param-sweep/pkg/plot"
	"github.com/picogrid/param-sweep/pkg/sweep"
)

// ErrCancelled is returned when the user abandons the form.
var ErrCancelled = errors.New("form cancelled")

// Menu actions of the form loop.
const (
	actionAdd      = "Add parameter"
	actionEdit     = "Edit parameter"
	actionGenerate = "Generate values"
	actionRemove   = "Remove parameter"
	actionPreview  = "Preview JSON"
	actionDone     = "Done"
	actionCancel   = "Cancel"
)

// envDefault returns SWEEP_<KEY> when set, otherwise fallback.
func envDefault(key, fallback string) string {
	if v := os.Getenv("SWEEP_" + strings.ToUpper(key)); v != "" {
		return v
	}
	return fallback
}

// PromptForm walks the user through editing f until they choose Done.
func PromptForm(f *form.Form) error {
	if err := survey.AskOne(&survey.Input{
		Message: "Name:",
		Default: envDefault("name", f.Name),
	}, &f.Name, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Description:",
		Default: envDefault("description", f.Description),
	}, &f.Description, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if f.Len() == 0 {
		if err := addParameter(f); err != nil {
			return err
		}
	}

	for {
		action, err := promptAction(f)
		if err != nil {
			return err
		}

		switch action {
		case actionAdd:
			err = addParameter(f)
		case actionEdit:
			err = withDraft(f, "Edit which parameter?", func(id string) error { return editParameter(f, id) })
		case actionGenerate:
			err = withDraft(f, "Generate values for?", func(id string) error { return generateValues(f, id) })
		case actionRemove:
			err = withDraft(f, "Remove which parameter?", func(id string) error {
				f.Remove(id)
				return nil
			})
		case actionPreview:
			err = previewForm(f)
		case actionDone:
			if _, err := f.Build(); err != nil {
				logger.Error(err.Error())
				continue
			}
			return nil
		case actionCancel:
			return ErrCancelled
		}
		if err != nil {
			return err
		}
	}
}

func promptAction(f *form.Form) (string, error) {
	logger.LogSubSection("Parameters")
	for _, d := range f.Drafts() {
		line := d.Summary()
		if d.Err != "" {
			line += "  (" + d.Err + ")"
		}
		logger.Info("  " + line)
	}

	options := []string{actionAdd}
	if f.Len() > 0 {
		options = append(options, actionEdit, actionGenerate, actionRemove)
	}
	options = append(options, actionPreview, actionDone, actionCancel)

	var action string
	err := survey.AskOne(&survey.Select{
		Message: "What next?",
		Options: options,
		Default: actionDone,
	}, &action)
	return action, err
}

// withDraft asks which draft to act on. Options are draft summaries, which
// may repeat, so the answer is read back as an index.
func withDraft(f *form.Form, message string, fn func(id string) error) error {
	drafts := f.Drafts()
	options := make([]string, len(drafts))
	for i, d := range drafts {
		options[i] = fmt.Sprintf("%d. %s", i+1, d.Summary())
	}

	var idx int
	if err := survey.AskOne(&survey.Select{Message: message, Options: options}, &idx); err != nil {
		return err
	}
	return fn(drafts[idx].ID)
}

func addParameter(f *form.Form) error {
	id := f.Add()
	if err := editParameter(f, id); err != nil {
		f.Remove(id)
		return err
	}
	return nil
}

func editParameter(f *form.Form, id string) error {
	d, _ := f.Draft(id)

	var key string
	if err := survey.AskOne(&survey.Input{
		Message: "Key:",
		Default: d.Key,
	}, &key, survey.WithValidator(survey.Required)); err != nil {
		return err
	}
	if err := f.SetKey(id, strings.TrimSpace(key)); err != nil {
		return err
	}

	typeOptions := make([]string, len(models.ParamTypes))
	for i, t := range models.ParamTypes {
		typeOptions[i] = string(t)
	}
	var typ string
	if err := survey.AskOne(&survey.Select{
		Message: "Type:",
		Options: typeOptions,
		Default: string(d.Type),
	}, &typ); err != nil {
		return err
	}
	if err := f.SetType(id, models.ParamType(typ)); err != nil {
		return err
	}

	useGenerator := d.Generator.Enabled
	if models.ParamType(typ).Numeric() {
		if err := survey.AskOne(&survey.Confirm{
			Message: "Generate values from a range or formula?",
			Default: useGenerator,
		}, &useGenerator); err != nil {
			return err
		}
	} else {
		useGenerator = false
	}
	if useGenerator != d.Generator.Enabled {
		if _, err := f.ToggleGenerator(id); err != nil {
			return err
		}
	}
	if useGenerator {
		return generateValues(f, id)
	}

	var raw string
	if err := survey.AskOne(&survey.Input{
		Message: "Values (comma-separated):",
		Default: d.Raw,
	}, &raw, survey.WithValidator(func(val interface{}) error {
		_, err := sweep.ParseValues(val.(string), models.ParamType(typ))
		return err
	})); err != nil {
		return err
	}
	if err := f.SetRaw(id, raw); err != nil {
		return err
	}
	return f.Commit(id)
}

func generateValues(f *form.Form, id string) error {
	d, _ := f.Draft(id)
	g := d.Generator

	questions := []*survey.Question{
		{Name: "start", Prompt: &survey.Input{Message: "Start:", Default: g.Start}, Validate: survey.Required},
		{Name: "end", Prompt: &survey.Input{Message: "End:", Default: g.End}, Validate: survey.Required},
		{Name: "step", Prompt: &survey.Input{Message: "Step (optional with a function):", Default: g.Step}},
		{Name: "formula", Prompt: &survey.Input{
			Message: "Function of x (optional):",
			Default: g.Formula,
			Help:    "e.g. sin(x), x**2, Math.log(x+1)",
		}},
	}
	answers := struct {
		Start   string `survey:"start"`
		End     string `survey:"end"`
		Step    string `survey:"step"`
		Formula string `survey:"formula"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	if err := f.SetGenerator(id, answers.Start, answers.End, answers.Step, answers.Formula); err != nil {
		return err
	}
	list, err := f.Generate(id)
	if err != nil {
		logger.Error(err.Error())
		return nil
	}
	logger.Successf("Generated %d values", len(list))
	return nil
}

func previewForm(f *form.Form) error {
	cfg := &models.Configuration{Name: f.Name, Description: f.Description}
	for _, d := range f.Drafts() {
		cfg.Parameters = append(cfg.Parameters, d.Parameter())
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// PromptSelection asks for the plot axes and objective. Values already set
// on sel are used as defaults.
func PromptSelection(cfg *models.Configuration, sel plot.Selection) (plot.Selection, error) {
	keys := cfg.Keys()
	if len(keys) == 0 {
		return sel, errors.New("no parameters available. Add or load a config")
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Use numeric index for X-axis?",
		Default: sel.UseIndex,
	}, &sel.UseIndex); err != nil {
		return sel, err
	}

	if !sel.UseIndex {
		if err := survey.AskOne(&survey.Select{
			Message: "X-axis:",
			Options: keys,
			Default: defaultKey(keys, sel.X, 0),
		}, &sel.X); err != nil {
			return sel, err
		}
	}

	if err := survey.AskOne(&survey.Select{
		Message: "Y-axis:",
		Options: keys,
		Default: defaultKey(keys, sel.Y, 1),
	}, &sel.Y); err != nil {
		return sel, err
	}

	objective := sel.Objective
	if objective == "" {
		objective = "y"
	}
	if err := survey.AskOne(&survey.Input{
		Message: "Objective function (use x and y):",
		Default: objective,
		Help:    "Example: y, x + y*2, Math.sin(x)+Math.log(y+1)",
	}, &sel.Objective); err != nil {
		return sel, err
	}
	return sel, nil
}

func defaultKey(keys []string, current string, fallback int) string {
	for _, k := range keys {
		if k == current {
			return k
		}
	}
	if fallback < len(keys) {
		return keys[fallback]
	}
	return keys[0]
}
