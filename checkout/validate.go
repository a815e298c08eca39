package checkout

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/viola-academy/portal-client/portal"
)

// newValidator builds the form validator with English field messages. Field
// names in messages follow the struct's json tags so they match what the UI
// binds to.
func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(validate, trans)
	return validate, trans
}

// translate converts validator failures into the portal's field-scoped
// validation error.
func translate(err error, trans ut.Translator) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return portal.NewValidationError(err)
	}
	fields := make([]portal.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, portal.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(trans),
		})
	}
	return portal.NewValidationError(fmt.Errorf("invalid checkout form"), fields...)
}
