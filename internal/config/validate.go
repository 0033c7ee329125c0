package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("dburl", func(fl validator.FieldLevel) bool {
		url := fl.Field().String()
		if strings.HasPrefix(url, "sqlite:///") {
			return len(url) > len("sqlite:///")
		}
		scheme, rest, ok := strings.Cut(url, "://")
		if !ok || rest == "" {
			return false
		}
		base, _, _ := strings.Cut(scheme, "+")
		return base == "postgres" || base == "postgresql"
	})
	return v
}

type validated struct {
	Host              string  `validate:"required"`
	Port              int     `validate:"min=1,max=65535"`
	DBURL             string  `validate:"required,dburl"`
	DBMaxOpenConns    int     `validate:"gte=0"`
	DBMaxIdleConns    int     `validate:"gte=0"`
	DBConnMaxLifetime float64 `validate:"gte=0"`
	LogLevel          string  `validate:"oneof=DEBUG INFO WARN WARNING ERROR"`
	LogFormat         string  `validate:"oneof=pretty json"`
}

// Validate checks that the configuration can start the service.
func (c AppConfig) Validate() error {
	err := validate.Struct(validated{
		Host:              c.host,
		Port:              c.port,
		DBURL:             c.dbURL,
		DBMaxOpenConns:    c.dbMaxOpenConns,
		DBMaxIdleConns:    c.dbMaxIdleConns,
		DBConnMaxLifetime: c.dbConnMaxLifetime.Seconds(),
		LogLevel:          strings.ToUpper(c.logLevel),
		LogFormat:         string(c.logFormat),
	})
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
