package professor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core"
)

var (
	usernameTag   = "username"
	usernameText  = "o nome de utilizador deve conter apenas letras minúsculas, números, pontos (.) ou underscores (_) e não pode ter espaços"
	usernameRegex = regexp.MustCompile(`^[a-z0-9._]+$`)

	// password policy
	pwdMinLen     = 6
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("a senha deve ter no mínimo %d caracteres", pwdMinLen)

	pwdUpperTag  = "pwdupper"
	pwdUpperText = "a senha deve conter pelo menos uma letra maiúscula"

	pwdLowerTag  = "pwdlower"
	pwdLowerText = "a senha deve conter pelo menos uma letra minúscula"

	pwdDigitTag  = "pwddigit"
	pwdDigitText = "a senha deve conter pelo menos um número"

	pwdTexts = map[string]string{
		pwdMinLenTag: pwdMinLenText,
		pwdUpperTag:  pwdUpperText,
		pwdLowerTag:  pwdLowerText,
		pwdDigitTag:  pwdDigitText,
	}
)

// InitValidators registers the professor validations. core.InitValidators must have been called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(usernameTag, usernameValidation)
	core.RegisterCustomTranslation(validate, translator, usernameTag, usernameText)

	validate.RegisterStructValidation(professorStructValidation, NewProfessor{})
	for tag, text := range pwdTexts {
		core.RegisterCustomTranslation(validate, translator, tag, text)
	}
}

// Custom Validators

// usernameValidation only allows lowercase letters, digits, dots and underscores.
func usernameValidation(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// professorStructValidation does struct level validation on NewProfessor. Every broken password rule is reported.
func professorStructValidation(sl validator.StructLevel) {
	if np, ok := sl.Current().Interface().(NewProfessor); ok && np.Password != "" {
		for _, tag := range passwordViolations(np.Password) {
			sl.ReportError(np.Password, "password", "Password", tag, "")
		}
	}
}

// passwordViolations applies the password policy and returns the tags of the broken rules, in this order:
// - minLen: 6
// - complexity: 1 upper, 1 lower, 1 digit
func passwordViolations(pwd string) []string {
	var hasUpper, hasLower, hasDigit bool
	var n int
	for _, char := range pwd {
		n++
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	var tags []string
	if n < pwdMinLen {
		tags = append(tags, pwdMinLenTag)
	}
	if !hasUpper {
		tags = append(tags, pwdUpperTag)
	}
	if !hasLower {
		tags = append(tags, pwdLowerTag)
	}
	if !hasDigit {
		tags = append(tags, pwdDigitTag)
	}
	return tags
}

// ValidatePassword applies the password policy outside of a form, e.g. from the admin CLI.
func ValidatePassword(pwd string) error {
	tags := passwordViolations(pwd)
	if len(tags) == 0 {
		return nil
	}
	flds := make([]core.FieldError, 0, len(tags))
	texts := make([]string, 0, len(tags))
	for _, tag := range tags {
		flds = append(flds, core.FieldError{Field: "password", Error: pwdTexts[tag]})
		texts = append(texts, pwdTexts[tag])
	}
	return core.NewValidationError(errors.New(strings.Join(texts, "; ")), flds...)
}
