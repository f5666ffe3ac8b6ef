package models

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockModel struct {
	ID        uuid.UUID `json:"id" db:"id" readOnly:"true"`
	Name      string    `json:"name,omitempty" db:"name"`
	Email     string    `json:"email" db:"email" validate:"required,email"`
	Secret    string    `json:"-" db:"secret"`
	CreatedAt string    `json:"createdAt" db:"created_at" readOnly:"true"`
}

func (m MockModel) TableName() string {
	return "mock_models"
}

func (m MockModel) GetID() uuid.UUID {
	return m.ID
}

func (m MockModel) EmptySlice() interface{} {
	return &[]MockModel{}
}

func TestGetValsFromModel(t *testing.T) {
	id := uuid.New()
	model := MockModel{
		ID:        id,
		Name:      "Test",
		Email:     "example@email.com",
		Secret:    "s3cret",
		CreatedAt: "2023-10-01",
	}

	t.Run("all fields", func(t *testing.T) {
		vals := GetValsFromModel(model, false)
		assert.Equal(t, []interface{}{id, "Test", "example@email.com", "s3cret", "2023-10-01"}, vals)
	})

	t.Run("without read only fields", func(t *testing.T) {
		vals := GetValsFromModel(&model, true)
		assert.Equal(t, []interface{}{"Test", "example@email.com", "s3cret"}, vals)
	})
}

func TestGetColumnNames(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "email", "secret", "created_at"}, GetColumnNames(MockModel{}, false))
	assert.Equal(t, []string{"name", "email", "secret"}, GetColumnNames(MockModel{}, true))
	assert.Empty(t, GetColumnNames(PollSettings{}, true))
}

func TestMapJsonTagsToDB(t *testing.T) {
	m := MapJsonTagsToDB(MockModel{})
	assert.Equal(t, map[string]string{
		"id":        "id",
		"name":      "name",
		"email":     "email",
		"createdAt": "created_at",
	}, m)

	em := MapJsonTagsToDB(Event{})
	assert.Equal(t, "start_date", em["startDate"])
	assert.Equal(t, "require_approval", em["requireApproval"])
}

func TestScanRowToModel(t *testing.T) {
	model := &MockModel{}
	id := uuid.New()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "secret", "created_at"}).
		AddRow(id.String(), "Test", "example@email.com", "s3cret", "2023-10-01")

	mock.ExpectQuery("SELECT id, name, email, secret, created_at FROM mock_models WHERE id = \\$1").WillReturnRows(rows)
	row := db.QueryRow("SELECT id, name, email, secret, created_at FROM mock_models WHERE id = $1", id)

	err = ScanRowToModel(model, row)
	assert.NoError(t, err)
	assert.Equal(t, id, model.ID)
	assert.Equal(t, "Test", model.Name)
	assert.Equal(t, "example@email.com", model.Email)
	assert.Equal(t, "2023-10-01", model.CreatedAt)

	assert.Error(t, ScanRowToModel(MockModel{}, row))
}

func TestScanRowsToSliceOfModels(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a, b := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "secret", "created_at"}).
		AddRow(a.String(), "A", "a@example.com", "", "2023-10-01").
		AddRow(b.String(), "B", "b@example.com", "", "2023-10-02")
	mock.ExpectQuery("SELECT (.+) FROM mock_models").WillReturnRows(rows)

	r, err := db.Query("SELECT id, name, email, secret, created_at FROM mock_models")
	require.NoError(t, err)
	defer r.Close()

	res, err := ScanRowsToSliceOfModels(MockModel{}, r, 2)
	require.NoError(t, err)

	got := *res.(*[]MockModel)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, "B", got[1].Name)
}

func TestValidateModel(t *testing.T) {
	tests := []struct {
		name    string
		model   interface{}
		wantErr bool
	}{
		{"valid mock", MockModel{Email: "a@example.com"}, false},
		{"invalid email", MockModel{Email: "nope"}, true},
		{"not a model", struct{}{}, true},
		{
			name: "valid event",
			model: Event{
				Title:      "Picnic",
				Type:       EventOneOff,
				Status:     EventPlanning,
				StartDate:  time.Now(),
				CoverImage: "cover.png",
			},
		},
		{
			name: "bad event type",
			model: Event{
				Title:      "Picnic",
				Type:       "WEEKLY",
				Status:     EventPlanning,
				StartDate:  time.Now(),
				CoverImage: "cover.png",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModel(tt.model)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnumValid(t *testing.T) {
	assert.True(t, EventMultiDay.Valid())
	assert.False(t, EventType("").Valid())
	assert.True(t, EventCancelled.Valid())
	assert.False(t, EventStatus("DONE").Valid())
	assert.True(t, AttendeeDeclined.Valid())
	assert.False(t, AttendeeStatus("MAYBE").Valid())
	assert.True(t, PollClosed.Valid())
	assert.True(t, VoterHostsOnly.Valid())
	assert.False(t, VoterPermission("EVERYONE").Valid())
	assert.True(t, ResultsHiddenUntilClosed.Valid())
	assert.False(t, ResultVisibility("").Valid())
}

func TestDefaultPollSettings(t *testing.T) {
	s := DefaultPollSettings()
	assert.False(t, s.AllowMultipleSelections)
	assert.Equal(t, VoterAllAttendees, s.VoterPermission)
	assert.Equal(t, ResultsVisibleToAll, s.ResultVisibility)
}
