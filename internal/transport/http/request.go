package http

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ecomlens/internal/analytics"
	"ecomlens/internal/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// trendQuery bounds the trailing-window comparison.
type trendQuery struct {
	Days int `json:"days" validate:"omitempty,min=1,max=180"`
}

// segmentQuery bounds the cluster count.
type segmentQuery struct {
	K int `json:"k" validate:"omitempty,min=2,max=8"`
}

// forecastQuery bounds the forecast horizon.
type forecastQuery struct {
	Days int `json:"days" validate:"omitempty,min=1,max=30"`
}

// topQuery bounds ranking length.
type topQuery struct {
	N int `json:"n" validate:"omitempty,min=1,max=100"`
}

// dailyQuery bounds the daily-stats window.
type dailyQuery struct {
	Days int `json:"days" validate:"omitempty,min=1,max=180"`
}

// intParam reads an integer query parameter; absent or empty means 0, which
// handlers treat as "use configured default".
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &analytics.InvalidParameterError{Param: name, Detail: "not an integer: " + raw}
	}
	return v, nil
}

// checkQuery runs validator tags, converting the first violation into the
// engine's parameter error so the response shape matches engine rejections.
func checkQuery(q any) error {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if ok := isValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			fe := verrs[0]
			return &analytics.InvalidParameterError{
				Param:  fe.Field(),
				Detail: "fails constraint " + fe.Tag() + "=" + fe.Param(),
			}
		}
		return err
	}
	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// filterFromQuery builds the ledger filter from query parameters. Dates are
// day-granular, inclusive on both ends.
func filterFromQuery(r *http.Request) (store.OrderFilter, error) {
	q := r.URL.Query()
	f := store.OrderFilter{
		Status:   q.Get("status"),
		Channel:  q.Get("channel"),
		Category: q.Get("category"),
		City:     q.Get("city"),
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.OrderFilter{}, &analytics.InvalidParameterError{Param: "from", Detail: "want YYYY-MM-DD, got " + raw}
		}
		f.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.OrderFilter{}, &analytics.InvalidParameterError{Param: "to", Detail: "want YYYY-MM-DD, got " + raw}
		}
		// inclusive day end
		f.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return f, nil
}
