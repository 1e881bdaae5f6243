package validation

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var phonePattern = regexp.MustCompile(`^(\+?\d{1,4}[-.\s]?)?\d{10}$`)

// passwordSpecials are the symbols a strong password may contain and must
// contain at least one of.
const passwordSpecials = "@$!%?&."

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	return v
}

// StrongPassword reports whether p is at least eight characters drawn from
// letters, digits and passwordSpecials, with at least one lower-case
// letter, one upper-case letter, one digit and one special.
func StrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r > unicode.MaxASCII:
			return false
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// Var checks value against validator tags, e.g. "required,min=2,max=50".
func Var(param string, value any, tag, msg string) Rule {
	return Rule{Param: param, Check: func(context.Context) (string, error) {
		if err := validate.Var(value, tag); err != nil {
			if _, ok := err.(validator.ValidationErrors); ok {
				return msg, nil
			}
			return "", err
		}
		return "", nil
	}}
}

// Required rejects a blank string.
func Required(param, value, msg string) Rule {
	return Var(param, strings.TrimSpace(value), "required", msg)
}

// Optional applies r only when value is not blank.
func Optional(value string, r Rule) Rule {
	return When(strings.TrimSpace(value) != "", r)
}

// Date checks the YYYY-MM-DD layout.
func Date(param, value, msg string) Rule {
	return Var(param, value, "datetime=2006-01-02", msg)
}

// DateOrder rejects an end date before the start date.  Unparseable or
// missing dates pass; Date reports those.
func DateOrder(param, start, end, msg string) Rule {
	return Rule{Param: param, Check: func(context.Context) (string, error) {
		s, err1 := time.Parse("2006-01-02", start)
		e, err2 := time.Parse("2006-01-02", end)
		if err1 != nil || err2 != nil || !e.Before(s) {
			return "", nil
		}
		return msg, nil
	}}
}

// Unique rejects the value when taken reports it in use by another row.
// The lookup is skipped for blank values.
func Unique(param, value string, taken func(ctx context.Context, value string) (bool, error), msg string) Rule {
	return Rule{Param: param, Check: func(ctx context.Context) (string, error) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		used, err := taken(ctx, value)
		if err != nil || !used {
			return "", err
		}
		return msg, nil
	}}
}

// Exists rejects the id when the referenced row is missing.
func Exists(param string, id uint64, exists func(ctx context.Context, id uint64) (bool, error), msg string) Rule {
	return Rule{Param: param, Check: func(ctx context.Context) (string, error) {
		if id == 0 {
			return msg, nil
		}
		ok, err := exists(ctx, id)
		if err != nil || ok {
			return "", err
		}
		return msg, nil
	}}
}

// Custom wraps a free-form check.
func Custom(param string, check Check) Rule {
	return Rule{Param: param, Check: check}
}

// When runs r only if cond holds.
func When(cond bool, r Rule) Rule {
	if cond {
		return r
	}
	return Rule{Param: r.Param, Location: r.Location, Check: func(context.Context) (string, error) { return "", nil }}
}

// In sets the location reported for r.
func In(location string, r Rule) Rule {
	r.Location = location
	return r
}

// IntAtLeast fails unless raw is an integer not below min.
func IntAtLeast(param, raw string, min int, msg string) Rule {
	return Rule{Param: param, Check: func(context.Context) (string, error) {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || validate.Var(n, "gte="+strconv.Itoa(min)) != nil {
			return msg, nil
		}
		return "", nil
	}}
}

// Positive fails unless raw is a finite number greater than zero.
func Positive(param, raw, msg string) Rule {
	return Rule{Param: param, Check: func(context.Context) (string, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || validate.Var(f, "gt=0") != nil {
			return msg, nil
		}
		return "", nil
	}}
}
