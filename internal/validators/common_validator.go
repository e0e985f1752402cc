package validators

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"commhub/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation functions
	validate.RegisterValidation("spot_category", validateSpotCategory)
	validate.RegisterValidation("sos_type", validateSOSType)
	validate.RegisterValidation("coordinates", validateCoordinates)
}

// Common validation errors
var (
	ErrInvalidCategory    = errors.New("invalid spot category")
	ErrInvalidSOSType     = errors.New("invalid sos alert type")
	ErrInvalidCoordinates = errors.New("invalid GPS coordinates")
	ErrNotNumeric         = errors.New("value is not numeric")
	ErrLatitudeRange      = errors.New("latitude must be between -90 and 90")
	ErrLongitudeRange     = errors.New("longitude must be between -180 and 180")
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ValidateStruct runs tag validation and converts failures into field errors.
func ValidateStruct(s interface{}) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors ValidationErrors
	var invalidErr *validator.InvalidValidationError
	if errors.As(err, &invalidErr) {
		return ValidationErrors{{Field: "struct", Message: err.Error()}}
	}

	for _, fieldErr := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   strings.ToLower(fieldErr.Field()),
			Tag:     fieldErr.Tag(),
			Value:   fmt.Sprintf("%v", fieldErr.Value()),
			Message: messageForTag(fieldErr),
		})
	}

	return validationErrors
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v))
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

func messageForTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "spot_category":
		return ErrInvalidCategory.Error()
	case "sos_type":
		return ErrInvalidSOSType.Error()
	case "coordinates":
		return ErrInvalidCoordinates.Error()
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}

// ParseManualCoordinates validates typed latitude/longitude input. Both
// values arrive as raw strings so non-numeric input is rejected here rather
// than swallowed by JSON number coercion.
func ParseManualCoordinates(latStr, lngStr string) (models.Coordinate, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return models.Coordinate{}, ErrNotNumeric
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return models.Coordinate{}, ErrNotNumeric
	}

	if lat < -90 || lat > 90 {
		return models.Coordinate{}, ErrLatitudeRange
	}

	if lng < -180 || lng > 180 {
		return models.Coordinate{}, ErrLongitudeRange
	}

	return models.Coordinate{Lat: lat, Lng: lng}, nil
}

func validateSpotCategory(fl validator.FieldLevel) bool {
	return models.ValidSpotCategory(models.SpotCategory(fl.Field().String()))
}

func validateSOSType(fl validator.FieldLevel) bool {
	return models.ValidSOSType(models.SOSType(fl.Field().String()))
}

func validateCoordinates(fl validator.FieldLevel) bool {
	coord, ok := fl.Field().Interface().(models.Coordinate)
	if !ok {
		return false
	}
	return coord.Valid()
}
