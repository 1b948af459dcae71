package wallet

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// inputValidator checks struct tags and renders field errors in English.
type inputValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newInputValidator() *inputValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")
	// Registration only fails for malformed built-in templates.
	_ = entranslations.RegisterDefaultTranslations(v, translator)

	return &inputValidator{validate: v, translator: translator}
}

// check returns nil, a *ValidationError for tag failures, or the validator's own error.
func (iv *inputValidator) check(val any) error {
	err := iv.validate.Struct(val)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(iv.translator)
	}
	return &ValidationError{Fields: fields}
}
