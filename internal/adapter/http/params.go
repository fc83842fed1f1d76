package http

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/geomag-metadata-service/internal/table"
)

const pageSizeCookie = "page_size"

var (
	validate = validator.New()
	yearRe   = regexp.MustCompile(`^\d{4}$`)
	iagaRe   = regexp.MustCompile(`^[A-Za-z0-9]{3,4}$`)
)

func init() {
	_ = validate.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		return yearRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("iaga", func(fl validator.FieldLevel) bool {
		return iagaRe.MatchString(fl.Field().String())
	})
}

// listParams are the table parameters accepted by list endpoints. Sizes
// outside the allowed set are not rejected; they fall back to the default.
type listParams struct {
	Page  string `validate:"omitempty,numeric"`
	Size  string `validate:"omitempty,numeric"`
	Order string `validate:"omitempty,oneof=asc desc"`
	Year  string `validate:"omitempty,year"`
}

type detailParams struct {
	IAGA string `validate:"required,iaga"`
}

// ValidationError describes one rejected parameter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validateStruct(s any) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "numeric":
			msg = fmt.Sprintf("%s must be a number", field)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		case "year":
			msg = fmt.Sprintf("%s must be a four-digit year", field)
		case "iaga":
			msg = fmt.Sprintf("%s must be a 3 or 4 character IAGA code", field)
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out = append(out, ValidationError{Field: field, Message: msg})
	}
	return out
}

func parseListParams(r *http.Request) listParams {
	q := r.URL.Query()
	return listParams{
		Page:  q.Get("page"),
		Size:  q.Get("size"),
		Order: strings.ToLower(q.Get("order")),
		Year:  q.Get("year"),
	}
}

// tableQuery reads the table state of a page request. An explicit size is
// remembered in a cookie; without one the cookie supplies it.
func tableQuery(w http.ResponseWriter, r *http.Request) table.Query {
	q := table.ParseQuery(r.URL.Query())
	if table.ValidPageSize(q.PageSize) {
		http.SetCookie(w, &http.Cookie{
			Name:     pageSizeCookie,
			Value:    strconv.Itoa(q.PageSize),
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return q
	}
	if c, err := r.Cookie(pageSizeCookie); err == nil {
		if n, err := strconv.Atoi(c.Value); err == nil && table.ValidPageSize(n) {
			q.PageSize = n
		}
	}
	return q
}
