package services

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"agrodash/pkg/contracts/domain"
)

// DateParamLayout is the wire format of date parameters.
const DateParamLayout = "2006-01-02"

// CriteriaRequest is the filter selection as received from a client.
// Empty fields take the dashboard defaults; a nil Commodities selects
// every commodity while an empty, non-nil one selects none.
type CriteriaRequest struct {
	From        string   `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To          string   `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Commodities []string `json:"commodities" validate:"omitempty,max=16,dive,required,max=64"`
	Rate        string   `json:"rate,omitempty" validate:"omitempty,oneof=buy sell"`
}

// NewValidator returns a validator reporting JSON field names.
func NewValidator() *validator.Validate {
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

// CriteriaDefaults supplies the values used for omitted request fields.
type CriteriaDefaults interface {
	DefaultCriteria() domain.FilterCriteria
}

// ResolveCriteria validates req and fills omitted fields from defaults.
// Validation failures are returned as validator.ValidationErrors.
func ResolveCriteria(v *validator.Validate, req CriteriaRequest, defaults CriteriaDefaults) (domain.FilterCriteria, error) {
	if err := v.Struct(req); err != nil {
		return domain.FilterCriteria{}, err
	}

	c := defaults.DefaultCriteria()
	if req.From != "" {
		from, err := time.Parse(DateParamLayout, req.From)
		if err != nil {
			return domain.FilterCriteria{}, fmt.Errorf("from: %w", err)
		}
		c.DateFrom = from
	}
	if req.To != "" {
		to, err := time.Parse(DateParamLayout, req.To)
		if err != nil {
			return domain.FilterCriteria{}, fmt.Errorf("to: %w", err)
		}
		c.DateTo = to
	}
	if req.Commodities != nil {
		c.Commodities = append([]string{}, req.Commodities...)
	}
	if req.Rate != "" {
		kind, err := domain.ParseRateKind(req.Rate)
		if err != nil {
			return domain.FilterCriteria{}, err
		}
		c.RateKind = kind
	}
	return c, nil
}
