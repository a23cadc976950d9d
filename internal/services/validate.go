package services

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/campushq/campus-records/internal/repository"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs tag validation and converts failures into the
// repository's ValidationError shape.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]repository.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, repository.FieldError{
				Field:   fe.Field(),
				Message: "failed " + fe.Tag() + " validation",
			})
		}
		return repository.NewValidationError(fields...)
	}
	return err
}
