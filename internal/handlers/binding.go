package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingErrorMessage flattens a ShouldBindJSON error into a client
// message, naming the offending fields when the failure came from
// struct validation.
func bindingErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "Invalid request format: " + err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		parts = append(parts, fmt.Sprintf("field '%s' failed '%s' validation", fe.Field(), fe.Tag()))
	}
	return "Invalid request format: " + strings.Join(parts, "; ")
}
