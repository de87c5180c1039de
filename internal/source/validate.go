package source

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// recordValidator returns the shared validator. Field errors are named by
// the csv tag so they match the source header.
func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("csv"); name != "" {
				return name
			}
			return f.Name
		})
	})
	return validate
}

// validateRecord checks the validate tags on rec and reports the first
// failing field as a *core.ParseError.
func validateRecord(rec any, table string, row int) error {
	err := recordValidator().Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %s row %d: %w", table, row, err)
	}

	fe := verrs[0]
	return &core.ParseError{
		Table:  table,
		Column: fe.Field(),
		Row:    row,
		Value:  fmt.Sprint(fe.Value()),
		Err:    fmt.Errorf("failed %q rule", ruleOf(fe)),
	}
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}
