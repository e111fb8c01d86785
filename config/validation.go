// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/http/httpguts"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateHeaders, Config{})
	return v
}

// Validate reports the first problems found in cfg, one per line of the
// returned error.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("httpoll/config: %w", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("httpoll/config: invalid configuration: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", fe.Namespace(), comparison(fe.Tag()), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", fe.Namespace(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Namespace(), fe.Param())
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", fe.Namespace(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a URL", fe.Namespace())
	case "header":
		return fmt.Sprintf("%s contains an invalid header %q", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}

func validateHeaders(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	for name, value := range cfg.Headers {
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
			sl.ReportError(cfg.Headers, "Headers", "Headers", "header", name)
		}
	}
}
