package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"taskapi/internal/handlers/dto"
	"taskapi/internal/service"

	"github.com/go-playground/validator/v10"
)

const (
	maxBodyBytes = 1 << 20

	defaultPage  = 1
	defaultLimit = 10
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	return v
}

// checkContentType accepts a request without a Content-Type header.
func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeJSON reads at most maxBodyBytes from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}

	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err != nil {
			return bodyError(err)
		}
		return service.NewValidationError("body", "must contain a single JSON value")
	}
	return nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return service.NewValidationError("body", fmt.Sprintf("must not exceed %d bytes", maxBodyBytes))
	}
	return service.NewValidationError("body", err.Error())
}

// validateRequest turns the first failed constraint into a validation error.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return service.NewValidationError(fe.Field(), describeTag(fe))
	}
	return err
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

func parseListQuery(r *http.Request) (dto.ListQuery, error) {
	query := dto.ListQuery{Page: defaultPage, Limit: defaultLimit}
	values := r.URL.Query()

	var err error
	if raw := values.Get("page"); raw != "" {
		if query.Page, err = strconv.Atoi(raw); err != nil {
			return query, service.NewValidationError("page", "must be an integer")
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if query.Limit, err = strconv.Atoi(raw); err != nil {
			return query, service.NewValidationError("limit", "must be an integer")
		}
	}

	return query, validateRequest(query)
}
