package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/logger"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	host := strings.TrimPrefix(srv.URL, "http://")
	return NewHTTP(host, "/api", "http", 5*time.Second, logger.NewNop(), nil)
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func TestListMotorbikesNormalizesBrands(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/motorbikes", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"data":[
			{"_id":"m1","name":"CBR 500","brand":{"_id":"b1","name":"Honda"},"category":{"name":"Sport"},"price":"45.5","rating":4.5,"createdAt":"2024-02-01T00:00:00Z"},
			{"id":"m2","name":"Vespa","brand":"Piaggio","category":"Scooter","price":20}
		]}`)
	}))

	bikes, err := client.ListMotorbikes(context.Background())
	require.NoError(t, err)
	require.Len(t, bikes, 2)

	assert.Equal(t, "m1", bikes[0].ID)
	assert.Equal(t, domain.BrandRef{ID: "b1", Name: "Honda"}, bikes[0].Brand)
	assert.Equal(t, "Sport", bikes[0].Category)
	assert.Equal(t, 45.5, bikes[0].Price)
	require.NotNil(t, bikes[0].Rating)
	assert.Equal(t, 4.5, *bikes[0].Rating)
	require.NotNil(t, bikes[0].CreatedAt)

	assert.Equal(t, domain.BrandRef{Name: "Piaggio"}, bikes[1].Brand)
	assert.Equal(t, "Scooter", bikes[1].Category)
	assert.Nil(t, bikes[1].Rating)
	assert.Nil(t, bikes[1].CreatedAt)
}

func TestLoginUnauthorized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Invalid email or password"}`)
	}))

	_, err := client.Login(context.Background(), "a@b.co", "wrong-password")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code)
	assert.Equal(t, "Invalid email or password", apiErr.PublicMessage())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestLoginReturnsSession(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		writeJSON(w, http.StatusOK, `{"token":"tok-1","user":{"_id":"u1","name":"Ana","email":"ana@example.com","role":"admin"}}`)
	}))

	session, err := client.Login(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "u1", session.User.ID)
	assert.True(t, session.User.IsAdmin())
}

func TestGetBookingNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/missing", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusNotFound, `{"error":"booking not found"}`)
	}))

	_, err := client.GetBooking(context.Background(), "tok", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "booking not found")
}

func TestCancelBookingNoContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/bookings/b1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.CancelBooking(context.Background(), "tok", "b1"))
}

func bookingRequest(method domain.PaymentMethod, proof *domain.File) *domain.CreateBookingRequest {
	return &domain.CreateBookingRequest{
		UserID:          "u1",
		MotorbikeID:     "m1",
		PickupLocation:  "Airport",
		DropoffLocation: "Airport",
		PickupDate:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		DropoffDate:     time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		Amount:          75,
		TotalPrice:      75,
		PaymentMethod:   method,
		PaymentProof:    proof,
	}
}

func TestCreateBookingSendsMultipart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "u1", r.FormValue("user_id"))
		assert.Equal(t, "m1", r.FormValue("motorbike_id"))
		assert.Equal(t, "2024-01-10T00:00:00.000Z", r.FormValue("pickup_date"))
		assert.Equal(t, "75.00", r.FormValue("total_price"))
		assert.Equal(t, "qr", r.FormValue("paymentMethod"))

		file, header, err := r.FormFile("paymentProof")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "proof.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))

		writeJSON(w, http.StatusCreated, `{"_id":"bk1","status":"pending","total_price":75,"pickup_date":"2024-01-10T00:00:00Z","dropoff_date":"2024-01-12T00:00:00Z","created_at":"2024-01-01T00:00:00Z"}`)
	}))

	proof := &domain.File{Name: "proof.png", ContentType: "image/png", Data: []byte("png-bytes")}
	b, err := client.CreateBooking(context.Background(), "tok", bookingRequest(domain.PaymentQR, proof))
	require.NoError(t, err)
	assert.Equal(t, "bk1", b.ID)
	assert.Equal(t, "m1", b.MotorbikeID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, domain.PaymentQR, b.PaymentMethod)
}

func TestCreateBookingQRWithoutProofNeverCallsBackend(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
	}))

	_, err := client.CreateBooking(context.Background(), "tok", bookingRequest(domain.PaymentQR, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paymentProof")
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestPaymentFormValidate(t *testing.T) {
	form := NewPaymentForm(bookingRequest("cash", nil))
	form.UserID = ""
	form.TotalPrice = 0

	err := form.Validate(nil)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "user_id")
	assert.Contains(t, msg, "total_price")
	assert.Contains(t, msg, "paymentMethod")
}

func TestListUserBookingsEmbeddedRecords(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/user/u1", r.URL.Path)
		writeJSON(w, http.StatusOK, `[{"_id":"b1","user_id":{"_id":"u1","name":"Ana"},"motorbike_id":{"_id":"m1","name":"Vespa","brand":"Piaggio","price":20},
			"pickup_location":"Airport","dropoff_location":"Harbor","pickup_date":"2030-01-10T00:00:00Z","dropoff_date":"2030-01-12T00:00:00Z",
			"total_price":60,"status":"canceled","created_at":"2029-12-01T00:00:00Z"}]`)
	}))

	bookings, err := client.ListUserBookings(context.Background(), "tok", "u1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	b := bookings[0]
	assert.Equal(t, "u1", b.UserID)
	assert.Equal(t, "m1", b.MotorbikeID)
	require.NotNil(t, b.Motorbike)
	assert.Equal(t, "Piaggio", b.Motorbike.BrandName())
	assert.Equal(t, domain.StatusCancelled, b.Status)
}
