package util

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tvcat/tvcat/internal/fault"
)

// NewValidator constructs the validator instance shared by all
// controllers. Schemas are declared as struct tags on the request DTOs.
func NewValidator() *validator.Validate {
	return validator.New()
}

// Validate runs the declared field constraints of the given request struct
// and reports the first violated rule as an InvalidArgument failure with a
// human-readable message. It never partially accepts a request.
func Validate(validate *validator.Validate, request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return fault.InvalidArgument("invalid request")
	}

	return fault.InvalidArgument("%s", describeViolation(validationErrs[0]))
}

func describeViolation(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("\"%s\" is required", field)
	case "gt":
		return fmt.Sprintf("\"%s\" must be a positive number", field)
	case "gte":
		return fmt.Sprintf("\"%s\" must be greater than or equal to %s", field, fieldErr.Param())
	case "lte":
		return fmt.Sprintf("\"%s\" must be less than or equal to %s", field, fieldErr.Param())
	case "min":
		return fmt.Sprintf("\"%s\" length must be at least %s characters long", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("\"%s\" length must be less than or equal to %s characters long", field, fieldErr.Param())
	default:
		return fmt.Sprintf("\"%s\" is invalid", field)
	}
}

// PositiveIntParam parses a path parameter that must be a positive
// integer (entity IDs, season numbers, page maths).
func PositiveIntParam(ec echo.Context, name string) (int, error) {
	value, err := strconv.Atoi(ec.Param(name))
	if err != nil {
		return 0, fault.InvalidArgument("\"%s\" must be a number", name)
	}
	if value <= 0 {
		return 0, fault.InvalidArgument("\"%s\" must be a positive number", name)
	}

	return value, nil
}

// RatingParam parses a path parameter holding a rating, which may be
// non-integer, and bounds it to [0,10].
func RatingParam(ec echo.Context, name string) (float64, error) {
	value, err := strconv.ParseFloat(ec.Param(name), 64)
	if err != nil {
		return 0, fault.InvalidArgument("\"%s\" must be a number", name)
	}
	if value < 0 || value > 10 {
		return 0, fault.InvalidArgument("\"%s\" must be between 0 and 10", name)
	}

	return value, nil
}

// NonEmptyStringParam parses a path parameter that must carry text.
func NonEmptyStringParam(ec echo.Context, name string) (string, error) {
	value := ec.Param(name)
	if value == "" {
		return "", fault.InvalidArgument("\"%s\" is not allowed to be empty", name)
	}

	return value, nil
}
