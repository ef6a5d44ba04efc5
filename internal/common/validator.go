package common

import (
	"reflect"
	"regexp"
	"slices"
	"strings"

	"dormdesk/internal/models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

// custom validation tags
const (
	billingMonthTag    = "billing_month"
	roomStatusTag      = "room_status"
	userRoleTag        = "user_role"
	expenseCategoryTag = "expense_category"
	slugTag            = "slug"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// RequestValidator is registered as echo's Validator
type RequestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, translator)

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Money and unit fields are compared as numbers
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation(billingMonthTag, func(fl validator.FieldLevel) bool {
		return ValidateBillingMonth(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation(roomStatusTag, oneOf(models.RoomAvailable, models.RoomOccupied, models.RoomMaintenance))
	_ = v.RegisterValidation(userRoleTag, oneOf(models.RoleSuperAdmin, models.RoleAdmin, models.RoleStaff, models.RoleViewer))
	_ = v.RegisterValidation(expenseCategoryTag, oneOf(models.ExpenseCategories...))
	_ = v.RegisterValidation(slugTag, func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	rv := &RequestValidator{validate: v, translator: translator}
	rv.registerCustomTranslations(billingMonthTag, roomStatusTag, userRoleTag, expenseCategoryTag, slugTag)
	return rv
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(values, fl.Field().String())
	}
}

func (rv *RequestValidator) registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = rv.validate.RegisterTranslation(tag, rv.translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case billingMonthTag:
		return fe.Field() + " must be in YYYY-MM format"
	case roomStatusTag:
		return fe.Field() + " must be one of available, occupied, maintenance"
	case userRoleTag:
		return fe.Field() + " must be one of super_admin, admin, staff, viewer"
	case expenseCategoryTag:
		return fe.Field() + " must be one of " + strings.Join(models.ExpenseCategories, ", ")
	case slugTag:
		return fe.Field() + " may contain lowercase letters, digits and single hyphens"
	default:
		return fe.Error()
	}
}

// Validate implements echo.Validator
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// FieldErrors turns validator errors into a field -> message map
func (rv *RequestValidator) FieldErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		details[field] = fe.Translate(rv.translator)
	}
	return details
}
