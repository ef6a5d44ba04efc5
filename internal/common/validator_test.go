package common

import (
	"errors"
	"testing"

	"dormdesk/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator_CustomTags(t *testing.T) {
	rv := NewRequestValidator()

	err := rv.Validate(&models.GenerateBillingsRequest{BillingMonth: "2025-13"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	details := rv.FieldErrors(verrs)
	assert.Contains(t, details["billing_month"], "YYYY-MM")

	assert.NoError(t, rv.Validate(&models.GenerateBillingsRequest{BillingMonth: "2025-02"}))

	assert.Error(t, rv.Validate(&models.RoomStatusRequest{Status: "broken"}))
	assert.NoError(t, rv.Validate(&models.RoomStatusRequest{Status: models.RoomMaintenance}))

	assert.Error(t, rv.Validate(&models.CreateUserRequest{Email: "a@b.co", Password: "longenough", FullName: "A", Role: "owner"}))
	assert.NoError(t, rv.Validate(&models.CreateUserRequest{Email: "a@b.co", Password: "longenough", FullName: "A", Role: models.RoleStaff}))
}

func TestRequestValidator_DecimalFields(t *testing.T) {
	rv := NewRequestValidator()

	req := &models.CreateRoomRequest{Number: "101", MonthlyRent: decimal.RequireFromString("-1")}
	err := rv.Validate(req)
	require.Error(t, err)

	req.MonthlyRent = decimal.RequireFromString("3500.50")
	assert.NoError(t, rv.Validate(req))
}

func TestRequestValidator_NestedReadings(t *testing.T) {
	rv := NewRequestValidator()

	req := &models.GenerateBillingsRequest{
		BillingMonth: "2025-03",
		Readings: []models.MeterReading{
			{RoomID: uuid.New(), WaterUnits: decimal.NewFromInt(5), ElectricUnits: decimal.NewFromInt(-2)},
		},
	}
	err := rv.Validate(req)
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	details := rv.FieldErrors(verrs)
	assert.Contains(t, details, "readings[0].electric_units")
}

func TestRequestValidator_Slug(t *testing.T) {
	rv := NewRequestValidator()
	assert.NoError(t, rv.Validate(&models.CreateOrganizationRequest{Name: "Sunrise", Slug: "sunrise-dorm"}))
	assert.Error(t, rv.Validate(&models.CreateOrganizationRequest{Name: "Sunrise", Slug: "Sunrise Dorm"}))
}

func TestValidatePaginationParams(t *testing.T) {
	l, o := ValidatePaginationParams(0, -5)
	assert.Equal(t, DefaultPageSize, l)
	assert.Equal(t, 0, o)

	l, _ = ValidatePaginationParams(500, 0)
	assert.Equal(t, MaxPageSize, l)
}

func TestValidateUUID(t *testing.T) {
	id := uuid.New()
	got, err := ValidateUUID(" "+id.String()+" ", "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ValidateUUID("", "id")
	assert.EqualError(t, err, "invalid input: id is required")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ValidateUUID("not-a-uuid", "id")
	assert.Error(t, err)
}

func TestMonthHelpers(t *testing.T) {
	assert.NoError(t, ValidateBillingMonth("2024-12"))
	assert.Error(t, ValidateBillingMonth("2024-1"))
	assert.Error(t, ValidateBillingMonth("december"))

	start, end, err := MonthRange("2024-12")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", start.Format(models.DateLayout))
	assert.Equal(t, "2025-01-01", end.Format(models.DateLayout))
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, "somchai", SanitizeSearchQuery("  som%chai_ "))
	assert.Equal(t, "", SanitizeSearchQuery("   "))
}
