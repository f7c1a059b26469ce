package translate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/badgesort/badgesort-action/pkg/inputs"
)

// checkedInputs carries the validation rules applied in strict mode.
type checkedInputs struct {
	Format string `validate:"required,oneof=markdown html svg"`
	ID     string `validate:"required"`
	Random string `validate:"required,integer"`
	Style  string `validate:"omitempty,oneof=plastic flat flat-square for-the-badge social"`
}

// Strict validates inputs before delegating to another Translator.
type Strict struct {
	next     Translator
	validate *validator.Validate
}

// NewStrict wraps next with input validation.
func NewStrict(next Translator) *Strict {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// The script parses --random as a base-10 int; negative means every icon.
	_ = validate.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(fl.Field().String())
		return err == nil
	})

	return &Strict{
		next:     next,
		validate: validate,
	}
}

// Schema returns the wrapped translator's schema.
func (s *Strict) Schema() SchemaVersion { return s.next.Schema() }

// Translate validates in and then translates it.
func (s *Strict) Translate(in inputs.PipelineInputs) (ArgumentVector, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	return s.next.Translate(in)
}

// Validate checks in against the strict rules without translating it.
func (s *Strict) Validate(in inputs.PipelineInputs) error {
	err := s.validate.Struct(checkedInputs{
		Format: in.Format,
		ID:     in.ID,
		Random: in.Random,
		Style:  in.Style.OrZero(),
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("value %q fails %q", fe.Value(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("value %q fails %q (%s)", fe.Value(), fe.Tag(), fe.Param())
		}
		return &TranslationError{
			Schema:  s.Schema(),
			Field:   strings.ToLower(fe.Field()),
			Message: msg,
		}
	}
	return &TranslationError{Schema: s.Schema(), Message: err.Error()}
}
