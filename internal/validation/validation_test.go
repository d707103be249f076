package validation

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructValidReview(t *testing.T) {
	req := dto.CreateReviewRequest{
		CompanyID:        uuid.New(),
		Rating:           4,
		Title:            "Great team",
		Content:          "Supportive managers and good pay.",
		Position:         "Engineer",
		EmploymentStatus: "Full-time",
	}
	assert.NoError(t, Struct(req))
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	req := dto.CreateReviewRequest{
		CompanyID:        uuid.New(),
		Rating:           6,
		Title:            "Ok",
		Content:          "short",
		Position:         "Engineer",
		EmploymentStatus: "Freelance",
	}

	err := Struct(req)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)

	want := []dto.FieldError{
		{Field: "rating", Message: "must be at most 5"},
		{Field: "content", Message: "must be at least 10 characters"},
		{Field: "employment_status", Message: "must be one of: Full-time, Part-time, Contract, Intern"},
	}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Errorf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestStructIndustry(t *testing.T) {
	req := dto.CreateCompanyRequest{
		Name:        "Acme",
		Description: "Makes everything you need.",
		Industry:    "Wizardry",
		Location:    "Berlin",
	}

	var verr *Error
	require.ErrorAs(t, Struct(req), &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "industry", verr.Fields[0].Field)

	req.Industry = "Technology"
	assert.NoError(t, Struct(req))
}

func TestStructPartialUpdateSkipsNil(t *testing.T) {
	short := "x"
	assert.NoError(t, Struct(dto.UpdateReviewRequest{}))

	var verr *Error
	require.ErrorAs(t, Struct(dto.UpdateReviewRequest{Title: &short}), &verr)
	assert.Equal(t, "title", verr.Fields[0].Field)
}
