package sync

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xelth-com/recoverydesk/internal/models"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// documentCheck carries the fields every invoice and estimate must have
type documentCheck struct {
	Number       string  `json:"number" validate:"required"`
	CustomerName string  `json:"customerName" validate:"required"`
	PhoneNumber  string  `json:"phoneNumber" validate:"required"`
	Amount       float64 `json:"amount" validate:"gt=0"`
	JobID        string  `json:"jobId" validate:"required"`
}

// messages maps "<field>.<tag>" to the text shown to operators
var messages = map[string]string{
	"deliveryDate.required":     "Delivery date is required",
	"deliveryMode.deliverymode": "Delivery mode must be one of: Hand Delivery, Courier, Postal Service, Pickup by Customer, Other",
	"recipientName.notblank":    "Recipient name is required",
	"courierNumber.carrier":     "Tracking number is required for courier/postal delivery",
	"courierCompany.carrier":    "Courier/postal company is required",
	"number.required":           "Invoice/Estimate number is required",
	"customerName.required":     "Customer name is required",
	"phoneNumber.required":      "Phone number is required",
	"amount.gt":                 "Amount must be greater than zero",
	"jobId.required":            "Job ID is required",
	"companyName.required":      "Company name is required",
	"state.required":            "State is required",
	"email.email":               "Invalid email format",
	"name.required":             "Template name is required",
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		// Use JSON tag names for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("deliverymode", func(fl validator.FieldLevel) bool {
			return models.DeliveryMode(fl.Field().String()).Valid()
		})
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			d := sl.Current().Interface().(models.DeliveryDetails)
			if !d.DeliveryMode.NeedsTracking() {
				return
			}
			if strings.TrimSpace(d.CourierNumber) == "" {
				sl.ReportError(d.CourierNumber, "courierNumber", "CourierNumber", "carrier", "")
			}
			if strings.TrimSpace(d.CourierCompany) == "" {
				sl.ReportError(d.CourierCompany, "courierCompany", "CourierCompany", "carrier", "")
			}
		}, models.DeliveryDetails{})
		validate = v
	})
	return validate
}

// validateStruct runs the validator and converts failures into a
// *ValidationError
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "email":
		return "Invalid email format"
	default:
		return "Invalid value"
	}
}

// ValidateDeliveryDetails checks a delivery before it is recorded
func ValidateDeliveryDetails(d models.DeliveryDetails) error {
	return validateStruct(d)
}

func validateDocument(number, customerName, phone string, amount float64, jobID string) error {
	return validateStruct(documentCheck{
		Number:       number,
		CustomerName: customerName,
		PhoneNumber:  phone,
		Amount:       amount,
		JobID:        jobID,
	})
}

func invalidStatus(s models.RecordStatus) error {
	return &ValidationError{Fields: []FieldError{{
		Field:   "status",
		Message: "Status must be one of: pending, in_progress, completed (got " + string(s) + ")",
	}}, cause: ErrInvalidStatus}
}
