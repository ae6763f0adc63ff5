package core

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation texts
	requiredTag      = "required"
	requiredWithTag  = "required_with"
	requiredText     = "this field is required"
	startsWithTag    = "startswith"
	startsWithText   = "must be a valid link"
	oneOfTag         = "oneof"
	notOneOfText     = "invalid value"
)

func init() {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	var found bool
	if Translator, found = uni.GetTranslator("en"); !found {
		log.Fatal("validators: en translator not found")
	}

	Validate = validator.New()
	if err := en_translations.RegisterDefaultTranslations(Validate, Translator); err != nil {
		log.Fatalf("validators: %v", err)
	}

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	RegisterCustomTranslation(Validate, Translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(Validate, Translator, requiredWithTag, requiredText, true)
	RegisterCustomTranslation(Validate, Translator, startsWithTag, startsWithText, true)
	RegisterCustomTranslation(Validate, Translator, oneOfTag, notOneOfText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
