// Package validation provides centralized validation of operator input.
//
// SYSTEM ARCHITECTURE ROLE:
// Flag values and menu answers are plain strings. This package checks them
// against named schemas before the service turns them into a rendering
// context or a server configuration.
//
// INTEGRATION POINTS:
// - internal/cli: session_options and serve_options schemas check flag values
// - internal/server/http.go: RequestValidator guards the /loot upload endpoint
// - internal/errors: ValidationResult.ToAppError() converts failures to AppError
//
// SCHEMA SYSTEM:
// - Field validators: type, length, pattern, options and a custom check per field
// - Schema rules: cross-field checks over the whole data map
//
// Values that pass are returned converted in ValidationResult.Data: strings
// trimmed, protocol names upper-cased. Host and port are passed through as
// typed; the server rejects a bad address when it binds.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
)

// FieldValidator provides validation rules for individual fields
type FieldValidator struct {
	Name      string
	Required  bool
	Type      string
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Options   []string
	Normalize func(string) string
	Custom    func(interface{}) error
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid    bool                   `json:"valid"`
	Errors   []ValidationError      `json:"errors,omitempty"`
	Warnings []ValidationWarning    `json:"warnings,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationWarning represents a field validation warning
type ValidationWarning struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Schema represents a validation schema
type Schema struct {
	Name   string
	Fields map[string]FieldValidator
	Rules  []func(map[string]interface{}) error
}

// Validator provides centralized validation functionality
type Validator struct {
	schemas map[string]*Schema
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := &Validator{
		schemas: make(map[string]*Schema),
	}
	v.registerBuiltinSchemas()
	return v
}

// RegisterSchema registers a validation schema
func (v *Validator) RegisterSchema(schema *Schema) {
	v.schemas[schema.Name] = schema
}

// Validate validates data against a schema
func (v *Validator) Validate(schemaName string, data map[string]interface{}) *ValidationResult {
	schema, exists := v.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Code:    "SCHEMA_NOT_FOUND",
				Message: fmt.Sprintf("Validation schema '%s' not found", schemaName),
			}},
		}
	}

	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
		Data:     make(map[string]interface{}),
	}

	for fieldName, validator := range schema.Fields {
		v.validateField(fieldName, validator, data, result)
	}

	for _, rule := range schema.Rules {
		if err := rule(result.Data); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   "schema",
				Code:    "SCHEMA_RULE_VIOLATION",
				Message: err.Error(),
			})
		}
	}

	return result
}

func (v *Validator) validateField(fieldName string, validator FieldValidator, data map[string]interface{}, result *ValidationResult) {
	value, exists := data[fieldName]

	if validator.Required && (!exists || value == nil || value == "") {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldName,
			Code:    "REQUIRED_FIELD_MISSING",
			Message: fmt.Sprintf("Field '%s' is required", fieldName),
		})
		return
	}

	// unset optional fields are collected interactively later
	if !exists || value == nil || value == "" {
		return
	}

	convertedValue, err := v.validateAndConvertType(fieldName, validator.Type, value)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldName,
			Code:    "INVALID_TYPE",
			Message: err.Error(),
			Value:   value,
		})
		return
	}

	if strValue, ok := convertedValue.(string); ok {
		if validator.Normalize != nil {
			strValue = validator.Normalize(strValue)
			convertedValue = strValue
		}
		if !v.checkString(fieldName, validator, strValue, result) {
			return
		}
	}

	if validator.Custom != nil {
		if err := validator.Custom(convertedValue); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   fieldName,
				Code:    "CUSTOM_VALIDATION_FAILED",
				Message: fmt.Sprintf("Field '%s': %s", fieldName, err.Error()),
				Value:   convertedValue,
			})
			return
		}
	}

	result.Data[fieldName] = convertedValue
}

func (v *Validator) checkString(fieldName string, validator FieldValidator, strValue string, result *ValidationResult) bool {
	fail := func(code, message string) bool {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldName,
			Code:    code,
			Message: message,
			Value:   strValue,
		})
		return false
	}

	if validator.MinLength > 0 && len(strValue) < validator.MinLength {
		return fail("MIN_LENGTH_VIOLATION", fmt.Sprintf("Field '%s' must be at least %d characters long", fieldName, validator.MinLength))
	}
	if validator.MaxLength > 0 && len(strValue) > validator.MaxLength {
		return fail("MAX_LENGTH_VIOLATION", fmt.Sprintf("Field '%s' must be at most %d characters long", fieldName, validator.MaxLength))
	}
	if validator.Pattern != nil && !validator.Pattern.MatchString(strValue) {
		return fail("PATTERN_MISMATCH", fmt.Sprintf("Field '%s' does not match required pattern", fieldName))
	}
	if len(validator.Options) > 0 {
		for _, option := range validator.Options {
			if strValue == option {
				return true
			}
		}
		return fail("INVALID_OPTION", fmt.Sprintf("Field '%s' must be one of: %s", fieldName, strings.Join(validator.Options, ", ")))
	}
	return true
}

// validateAndConvertType validates and converts value to the specified type
func (v *Validator) validateAndConvertType(fieldName, expectedType string, value interface{}) (interface{}, error) {
	switch expectedType {
	case "string":
		if str, ok := value.(string); ok {
			return strings.TrimSpace(str), nil
		}
		return fmt.Sprintf("%v", value), nil

	case "int":
		switch val := value.(type) {
		case int:
			return val, nil
		case float64:
			return int(val), nil
		case string:
			if intVal, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				return intVal, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be an integer", fieldName)

	case "bool":
		switch val := value.(type) {
		case bool:
			return val, nil
		case string:
			if boolVal, err := strconv.ParseBool(val); err == nil {
				return boolVal, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be a boolean", fieldName)

	default:
		return value, nil
	}
}

func protocolNames(protocols []models.Protocol) []string {
	names := make([]string, len(protocols))
	for i, p := range protocols {
		names[i] = string(p)
	}
	return names
}

func addressFields() map[string]FieldValidator {
	return map[string]FieldValidator{
		"lhost": {
			Name:      "lhost",
			Type:      "string",
			MaxLength: 253,
		},
		"lport": {
			Name:      "lport",
			Type:      "string",
			MaxLength: 32,
		},
		"input_folder": {
			Name:      "input_folder",
			Type:      "string",
			MaxLength: 4096,
		},
		"input_file": {
			Name:      "input_file",
			Type:      "string",
			MaxLength: 4096,
		},
	}
}

// registerBuiltinSchemas registers the option schemas of the two commands
func (v *Validator) registerBuiltinSchemas() {
	session := addressFields()
	session["target_os"] = FieldValidator{
		Name:      "target_os",
		Type:      "string",
		Options:   []string{string(models.Windows), string(models.Linux)},
		Normalize: strings.ToLower,
	}
	session["protocol"] = FieldValidator{
		Name:      "protocol",
		Type:      "string",
		Options:   protocolNames(models.TemplateProtocols),
		Normalize: strings.ToUpper,
	}
	session["command"] = FieldValidator{
		Name:      "command",
		Type:      "string",
		MaxLength: 64,
	}
	session["output_file"] = FieldValidator{
		Name:      "output_file",
		Type:      "string",
		MaxLength: 4096,
	}
	v.RegisterSchema(&Schema{Name: "session_options", Fields: session})

	serve := addressFields()
	serve["protocol"] = FieldValidator{
		Name:      "protocol",
		Required:  true,
		Type:      "string",
		Options:   protocolNames(models.AllProtocols),
		Normalize: strings.ToUpper,
	}
	serve["input_file"] = FieldValidator{
		Name:      "input_file",
		Required:  true,
		Type:      "string",
		MaxLength: 4096,
	}
	v.RegisterSchema(&Schema{Name: "serve_options", Fields: serve})

	v.RegisterSchema(&Schema{
		Name: "upload",
		Fields: map[string]FieldValidator{
			"filename": {
				Name:      "filename",
				Required:  true,
				Type:      "string",
				MaxLength: 255,
				Custom: func(value interface{}) error {
					name, _ := value.(string)
					if SanitizeFilename(name) == "" {
						return fmt.Errorf("file name %q is not usable", name)
					}
					return nil
				},
			},
		},
	})
}

// ToAppError converts validation result to AppError
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}

	if len(result.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	firstError := result.Errors[0]
	appErr := errors.ValidationError(firstError.Message)

	var details []string
	for _, validationErr := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}
	appErr.WithDetails(strings.Join(details, "; "))

	appErr.WithContext("validation_errors", result.Errors)
	if len(result.Warnings) > 0 {
		appErr.WithContext("validation_warnings", result.Warnings)
	}

	return appErr
}

// GetValidatedData returns the validated and converted data
func (result *ValidationResult) GetValidatedData() map[string]interface{} {
	if !result.Valid {
		return nil
	}
	return result.Data
}
