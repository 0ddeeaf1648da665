package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

// PlaygroundV10 Validator implementation using go-playground
type PlaygroundV10 struct {
	core *validator.Validate
	uni  *ut.UniversalTranslator
}

var _ Validator = &PlaygroundV10{}

// NewValidator create a new Validator, english is the fallback locale
func NewValidator() *PlaygroundV10 {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, pt_BR.New())

	validate := validator.New()
	enTrans, _ := uni.GetTranslator("en")
	ptTrans, _ := uni.GetTranslator("pt_BR")
	en_translations.RegisterDefaultTranslations(validate, enTrans)
	ptbr_translations.RegisterDefaultTranslations(validate, ptTrans)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PlaygroundV10{
		core: validate,
		uni:  uni,
	}
}

// Struct validate struct
func (v PlaygroundV10) Struct(s interface{}, locales ...string) []*FieldError {
	err := v.core.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*FieldError{NewFieldError("", err.Error())}
	}

	trans, _ := v.uni.FindTranslator(normalizeLocales(locales)...)
	result := make([]*FieldError, 0, len(errs))
	for _, item := range errs {
		result = append(result, NewFieldError(item.Field(), item.Translate(trans)))
	}
	return result
}

// Empty check if value is empty
func (v PlaygroundV10) Empty(varName string, s interface{}) []*FieldError {
	if err := v.core.Var(s, "required"); err != nil {
		return []*FieldError{NewFieldError(varName, fmt.Sprintf("%s is required", varName))}
	}
	return nil
}

// normalizeLocales turns Accept-Language style tags (pt-BR;q=0.9) into translator keys (pt_BR)
func normalizeLocales(locales []string) []string {
	result := make([]string, 0, len(locales))
	for _, l := range locales {
		for _, part := range strings.Split(l, ",") {
			tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
			if tag == "" || tag == "*" {
				continue
			}
			result = append(result, strings.Replace(tag, "-", "_", 1))
		}
	}
	return result
}
