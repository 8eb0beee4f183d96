package participation

import (
	"errors"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/challengeme/client/internal/models"
)

// Contract is the user-chosen commitment that parameterizes acceptance:
// when the challenge starts and when it must be done.
type Contract struct {
	StartDate      models.Date `validate:"required,notpast"`
	TargetDeadline models.Date `validate:"required"`
}

// Duration returns the committed number of days between start and deadline.
func (c Contract) Duration() int {
	return int(c.TargetDeadline.Sub(c.StartDate.Time).Hours() / 24)
}

var contractValidator = newContractValidator()

func newContractValidator() *validator.Validate {
	v := validator.New()

	// Unwrap models.Date to its embedded time.Time so the built-in zero
	// check and custom date rules see a plain time value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(models.Date); ok {
			return d.Time
		}
		return nil
	}, models.Date{})

	v.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.Before(models.Today().Time)
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(Contract)
		if c.StartDate.IsZero() || c.TargetDeadline.IsZero() {
			return // field-level "required" reports these
		}
		if !c.TargetDeadline.After(c.StartDate) {
			sl.ReportError(c.TargetDeadline, "TargetDeadline", "TargetDeadline", "afterstart", "")
		}
	}, Contract{})

	return v
}

// Validate applies the contract preconditions locally, before any network
// call: the start date must not be in the past and the deadline must be
// strictly after the start date. This is a UX guard, not a security
// boundary; the server revalidates. Failures come back as user-facing
// messages.
func (c Contract) Validate() error {
	err := contractValidator.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	// Surface the first violation, the way the accept form shows one
	// message at a time.
	fe := verrs[0]
	switch {
	case fe.Field() == "StartDate" && fe.Tag() == "required":
		return errors.New("a start date is required to sign the contract")
	case fe.Field() == "StartDate" && fe.Tag() == "notpast":
		return errors.New("start date cannot be in the past")
	case fe.Field() == "TargetDeadline" && fe.Tag() == "required":
		return errors.New("a target deadline is required to sign the contract")
	default:
		return errors.New("deadline must be after the start date")
	}
}
