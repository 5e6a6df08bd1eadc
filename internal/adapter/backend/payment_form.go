package backend

import (
	"bytes"
	"strconv"
	"time"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

// PaymentForm is the multipart body of POST /payments.
type PaymentForm struct {
	UserID          string
	MotorbikeID     string
	PickupLocation  string
	DropoffLocation string
	PickupDate      strfmt.DateTime
	DropoffDate     strfmt.DateTime
	Amount          float64
	TotalPrice      float64
	PaymentMethod   string
	PaymentProof    *domain.File
}

func NewPaymentForm(req *domain.CreateBookingRequest) *PaymentForm {
	return &PaymentForm{
		UserID:          req.UserID,
		MotorbikeID:     req.MotorbikeID,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		PickupDate:      strfmt.DateTime(req.PickupDate.UTC()),
		DropoffDate:     strfmt.DateTime(req.DropoffDate.UTC()),
		Amount:          req.Amount,
		TotalPrice:      req.TotalPrice,
		PaymentMethod:   string(req.PaymentMethod),
		PaymentProof:    req.PaymentProof,
	}
}

var paymentMethodEnum = []interface{}{
	string(domain.PaymentQR),
	string(domain.PaymentCredit),
	string(domain.PaymentBank),
}

// Validate checks the form before it leaves the process.
func (m *PaymentForm) Validate(formats strfmt.Registry) error {
	if formats == nil {
		formats = strfmt.Default
	}
	var res []error

	for _, f := range []struct{ name, value string }{
		{"user_id", m.UserID},
		{"motorbike_id", m.MotorbikeID},
		{"pickup_location", m.PickupLocation},
		{"dropoff_location", m.DropoffLocation},
	} {
		if err := validate.RequiredString(f.name, "formData", f.value); err != nil {
			res = append(res, err)
		}
	}

	if err := validate.FormatOf("pickup_date", "formData", "date-time", m.PickupDate.String(), formats); err != nil {
		res = append(res, err)
	}
	if err := validate.FormatOf("dropoff_date", "formData", "date-time", m.DropoffDate.String(), formats); err != nil {
		res = append(res, err)
	}
	if time.Time(m.DropoffDate).Before(time.Time(m.PickupDate)) {
		res = append(res, errors.New(422, "dropoff_date in formData must not be before pickup_date"))
	}

	if err := validate.Minimum("total_price", "formData", m.TotalPrice, 0, true); err != nil {
		res = append(res, err)
	}
	if err := validate.Minimum("amount", "formData", m.Amount, 0, true); err != nil {
		res = append(res, err)
	}

	if err := validate.Enum("paymentMethod", "formData", m.PaymentMethod, paymentMethodEnum); err != nil {
		res = append(res, err)
	}
	if m.PaymentMethod == string(domain.PaymentQR) && (m.PaymentProof == nil || len(m.PaymentProof.Data) == 0) {
		res = append(res, errors.Required("paymentProof", "formData", nil))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PaymentForm) WriteToRequest(r runtime.ClientRequest, _ strfmt.Registry) error {
	fields := []struct{ name, value string }{
		{"user_id", m.UserID},
		{"motorbike_id", m.MotorbikeID},
		{"pickup_location", m.PickupLocation},
		{"dropoff_location", m.DropoffLocation},
		{"pickup_date", m.PickupDate.String()},
		{"dropoff_date", m.DropoffDate.String()},
		{"amount", strconv.FormatFloat(m.Amount, 'f', 2, 64)},
		{"total_price", strconv.FormatFloat(m.TotalPrice, 'f', 2, 64)},
		{"paymentMethod", m.PaymentMethod},
	}
	for _, f := range fields {
		if err := r.SetFormParam(f.name, f.value); err != nil {
			return err
		}
	}

	if m.PaymentProof != nil && len(m.PaymentProof.Data) > 0 {
		proof := runtime.NamedReader(m.PaymentProof.Name, bytes.NewReader(m.PaymentProof.Data))
		if err := r.SetFileParam("paymentProof", proof); err != nil {
			return err
		}
	}
	return nil
}
