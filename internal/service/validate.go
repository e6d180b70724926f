package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const tagUserEmail = "useremail"

// 常见的 RFC 5322 子集：local@label(.label)+，大小写不敏感
var emailRE = regexp.MustCompile(`(?i)^[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

func ValidEmail(email string) bool { return emailRE.MatchString(email) }

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(tagUserEmail, func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return v
}
