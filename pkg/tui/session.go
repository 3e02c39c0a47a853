package tui

import (
	"context"
	"fmt"

	"github.com/goliatone/go-catsearch/pkg/model"
	"github.com/goliatone/go-catsearch/pkg/query"
	"github.com/goliatone/go-catsearch/pkg/schema"
)

const anyOption = "(any)"

// Session walks the schema's fields and collects a field-input state from
// terminal prompts. Each field kind maps to the matching control: text and
// number fields to inputs, booleans and choices to selects, multi-choice
// fields to multi-selects. Leaving a prompt empty leaves the field
// unconstrained.
type Session struct {
	driver PromptDriver
	cfg    *schema.Config
}

// NewSession pairs a prompt driver with a loaded config.
func NewSession(driver PromptDriver, cfg *schema.Config) *Session {
	return &Session{driver: driver, cfg: cfg}
}

// CollectState prompts for every declared field in order and returns the
// resulting input state. Raw text goes into the state unparsed; operand
// validation stays with the predicate builder, so a typo in a number field
// surfaces as that field's advisory, not a prompt failure.
func (s *Session) CollectState(ctx context.Context) (query.State, error) {
	state := make(query.State)
	for _, field := range s.cfg.Fields {
		if err := s.collectField(ctx, field, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (s *Session) collectField(ctx context.Context, field model.Field, state query.State) error {
	label := field.DisplayLabel()

	switch field.Kind {
	case model.KindText:
		out, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Help:    "substring to search for; leave empty to skip",
		})
		if err != nil {
			return err
		}
		if out != "" {
			state[field.ID] = query.Input{Operand: out}
		}

	case model.KindNumber:
		if field.Operator == model.OpRange {
			return s.collectRange(ctx, field, state)
		}
		out, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Help:    numberHelp(field),
		})
		if err != nil {
			return err
		}
		if out != "" {
			state[field.ID] = query.Input{Operand: out}
		}

	case model.KindBoolean:
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message: label,
			Options: []string{anyOption, "true", "false"},
		})
		if err != nil {
			return err
		}
		if idx > 0 {
			state[field.ID] = query.Input{Operand: idx == 1}
		}

	case model.KindChoice:
		options := append([]string{anyOption}, field.Values...)
		idx, err := s.driver.Select(ctx, SelectConfig{Message: label, Options: options})
		if err != nil {
			return err
		}
		if idx > 0 {
			state[field.ID] = query.Input{Operand: options[idx]}
		}

	case model.KindMultiChoice:
		picked, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message: label,
			Options: field.Values,
			Help:    "space to toggle, enter to confirm; none selected skips the field",
		})
		if err != nil {
			return err
		}
		if len(picked) > 0 {
			values := make([]string, 0, len(picked))
			for _, idx := range picked {
				if idx >= 0 && idx < len(field.Values) {
					values = append(values, field.Values[idx])
				}
			}
			state[field.ID] = query.Input{Operand: values}
		}
	}
	return nil
}

// collectRange prompts min and max separately; either may stay empty, both
// empty leaves the field unconstrained.
func (s *Session) collectRange(ctx context.Context, field model.Field, state query.State) error {
	label := field.DisplayLabel()

	minRaw, err := s.driver.Input(ctx, InputConfig{
		Message: label + " (min)",
		Help:    numberHelp(field),
	})
	if err != nil {
		return err
	}
	maxRaw, err := s.driver.Input(ctx, InputConfig{
		Message: label + " (max)",
		Help:    numberHelp(field),
	})
	if err != nil {
		return err
	}

	operand := make(map[string]any, 2)
	if minRaw != "" {
		operand["min"] = minRaw
	}
	if maxRaw != "" {
		operand["max"] = maxRaw
	}
	if len(operand) > 0 {
		state[field.ID] = query.Input{Operand: operand}
	}
	return nil
}

func numberHelp(field model.Field) string {
	switch {
	case field.Min != nil && field.Max != nil:
		return fmt.Sprintf("number between %v and %v; leave empty to skip", *field.Min, *field.Max)
	case field.Min != nil:
		return fmt.Sprintf("number >= %v; leave empty to skip", *field.Min)
	case field.Max != nil:
		return fmt.Sprintf("number <= %v; leave empty to skip", *field.Max)
	default:
		return "number; leave empty to skip"
	}
}
