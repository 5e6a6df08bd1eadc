package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/swag"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

// number accepts both JSON numbers and numeric strings.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

// ref is a field that holds either a bare string or an embedded record.
type ref json.RawMessage

func (r *ref) UnmarshalJSON(b []byte) error {
	*r = append((*r)[0:0], b...)
	return nil
}

func (r ref) empty() bool {
	t := bytes.TrimSpace(r)
	return len(t) == 0 || string(t) == "null"
}

func (r ref) isObject() bool {
	t := bytes.TrimSpace(r)
	return len(t) > 0 && t[0] == '{'
}

func (r ref) str() string {
	var s string
	if json.Unmarshal(r, &s) == nil {
		return s
	}
	return ""
}

type namedRecord struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
	Name    string `json:"name"`
}

func (n namedRecord) id() string {
	return firstNonEmpty(n.ID, n.MongoID)
}

// brandRef normalizes a brand given as a name string or as an object.
func (r ref) brandRef() domain.BrandRef {
	if r.empty() {
		return domain.BrandRef{}
	}
	if !r.isObject() {
		return domain.BrandRef{Name: strings.TrimSpace(r.str())}
	}
	var rec namedRecord
	if err := json.Unmarshal(r, &rec); err != nil {
		return domain.BrandRef{}
	}
	return domain.BrandRef{ID: rec.id(), Name: strings.TrimSpace(rec.Name)}
}

// name returns the display name of a category-like field.
func (r ref) name() string {
	return r.brandRef().Name
}

// id returns the identity of a reference given as an id string or an object.
func (r ref) id() string {
	if r.empty() {
		return ""
	}
	if !r.isObject() {
		return r.str()
	}
	var rec namedRecord
	if err := json.Unmarshal(r, &rec); err != nil {
		return ""
	}
	return rec.id()
}

type motorbikeDTO struct {
	ID             string     `json:"id"`
	MongoID        string     `json:"_id"`
	Name           string     `json:"name"`
	Brand          ref        `json:"brand"`
	Category       ref        `json:"category"`
	Price          number     `json:"price"`
	EngineSize     *string    `json:"engine_size"`
	EngineSizeAlt  *string    `json:"engineSize"`
	Rating         *number    `json:"rating"`
	Image          *string    `json:"image"`
	ImageURL       *string    `json:"image_url"`
	CreatedAt      *time.Time `json:"created_at"`
	CreatedAtCamel *time.Time `json:"createdAt"`
}

func (d *motorbikeDTO) toDomain() domain.Motorbike {
	m := domain.Motorbike{
		ID:       firstNonEmpty(d.ID, d.MongoID),
		Name:     strings.TrimSpace(d.Name),
		Brand:    d.Brand.brandRef(),
		Category: d.Category.name(),
		Price:    float64(d.Price),
	}
	if v := firstNonEmpty(swag.StringValue(d.EngineSize), swag.StringValue(d.EngineSizeAlt)); v != "" {
		m.EngineSize = swag.String(v)
	}
	if d.Rating != nil {
		m.Rating = swag.Float64(float64(*d.Rating))
	}
	if v := firstNonEmpty(swag.StringValue(d.Image), swag.StringValue(d.ImageURL)); v != "" {
		m.Image = swag.String(v)
	}
	if d.CreatedAt != nil {
		m.CreatedAt = d.CreatedAt
	} else if d.CreatedAtCamel != nil {
		m.CreatedAt = d.CreatedAtCamel
	}
	return m
}

type brandDTO struct {
	ID          string    `json:"id"`
	MongoID     string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *brandDTO) toDomain() domain.Brand {
	return domain.Brand{
		ID:          firstNonEmpty(d.ID, d.MongoID),
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

type userDTO struct {
	ID        string    `json:"id"`
	MongoID   string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Bio       *string   `json:"bio"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *userDTO) toDomain() *domain.User {
	role := domain.Customer
	if strings.EqualFold(d.Role, string(domain.Admin)) {
		role = domain.Admin
	}
	return &domain.User{
		ID:        firstNonEmpty(d.ID, d.MongoID),
		Name:      d.Name,
		Email:     d.Email,
		Role:      role,
		Phone:     d.Phone,
		Address:   d.Address,
		Bio:       d.Bio,
		Avatar:    d.Avatar,
		CreatedAt: d.CreatedAt,
	}
}

type authDTO struct {
	Token       string  `json:"token"`
	AccessToken string  `json:"access_token"`
	User        userDTO `json:"user"`
}

type bookingDTO struct {
	ID              string    `json:"id"`
	MongoID         string    `json:"_id"`
	User            ref       `json:"user_id"`
	Motorbike       ref       `json:"motorbike_id"`
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	PickupDate      time.Time `json:"pickup_date"`
	DropoffDate     time.Time `json:"dropoff_date"`
	TotalPrice      number    `json:"total_price"`
	Status          string    `json:"status"`
	PaymentMethod   string    `json:"paymentMethod"`
	CreatedAt       time.Time `json:"created_at"`
}

func (d *bookingDTO) toDomain() domain.Booking {
	b := domain.Booking{
		ID:              firstNonEmpty(d.ID, d.MongoID),
		UserID:          d.User.id(),
		MotorbikeID:     d.Motorbike.id(),
		PickupLocation:  d.PickupLocation,
		DropoffLocation: d.DropoffLocation,
		PickupDate:      d.PickupDate,
		DropoffDate:     d.DropoffDate,
		TotalPrice:      float64(d.TotalPrice),
		Status:          domain.ParseBookingStatus(d.Status),
		PaymentMethod:   domain.PaymentMethod(d.PaymentMethod),
		CreatedAt:       d.CreatedAt,
	}
	if d.Motorbike.isObject() {
		var mb motorbikeDTO
		if json.Unmarshal(d.Motorbike, &mb) == nil {
			m := mb.toDomain()
			b.Motorbike = &m
		}
	}
	return b
}

func (d *bookingDTO) toAdmin() domain.AdminBooking {
	b := domain.AdminBooking{
		ID:              firstNonEmpty(d.ID, d.MongoID),
		UserID:          d.User.id(),
		MotorbikeID:     d.Motorbike.id(),
		PickupLocation:  d.PickupLocation,
		DropoffLocation: d.DropoffLocation,
		PickupDate:      d.PickupDate,
		DropoffDate:     d.DropoffDate,
		TotalPrice:      float64(d.TotalPrice),
		Status:          domain.ParseAdminStatus(d.Status),
		CreatedAt:       d.CreatedAt,
	}
	if d.User.isObject() {
		b.UserName = d.User.name()
	}
	if d.Motorbike.isObject() {
		b.MotorbikeName = d.Motorbike.name()
	}
	return b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
