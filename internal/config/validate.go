package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// validate holds the settings and caches for validating project config values
var validate *validator.Validate

// translator is a cache of locale and translation information
var translator ut.Translator

func init() {
	validate = validator.New()

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report the toml key rather than the Go field name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Check validates a config struct using its validate tags. The first failing field is
// returned as a ConfigError prefixed with scope.
func Check(scope string, val any) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return &domain.ConfigError{Key: scope, Reason: err.Error()}
	}

	fe := verrors[0]
	key := fe.Field()
	if scope != "" {
		key = scope + "." + key
	}
	return &domain.ConfigError{Key: key, Reason: fe.Translate(translator)}
}
