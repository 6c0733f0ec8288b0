package cases_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/cases"
	"github.com/hugh/lawconnect/internal/database/models"
	"github.com/hugh/lawconnect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Authorize(t *testing.T) {
	ts := testutil.NewTestContext(t)
	svc := cases.NewService(ts.DB)
	ctx := testutil.TestContext(t)

	lawyer := testutil.CreateTestUser(t, ts.DB, models.RoleLawyer)
	otherLawyer := testutil.CreateTestUser(t, ts.DB, models.RoleLawyer)
	otherClient := testutil.CreateTestUser(t, ts.DB, models.RoleClient)
	admin := testutil.CreateTestUser(t, ts.DB, models.RoleAdmin)
	c := testutil.CreateTestCase(t, ts.DB, ts.User.ID, &lawyer.ID)

	tests := []struct {
		name    string
		userID  uuid.UUID
		role    string
		wantErr error
	}{
		{"owning client", ts.User.ID, models.RoleClient, nil},
		{"assigned lawyer", lawyer.ID, models.RoleLawyer, nil},
		{"admin", admin.ID, models.RoleAdmin, nil},
		{"other client", otherClient.ID, models.RoleClient, cases.ErrForbidden},
		{"unassigned lawyer", otherLawyer.ID, models.RoleLawyer, cases.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authorize(ctx, c.ID, tt.userID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.ID, got.ID)
		})
	}

	t.Run("missing case", func(t *testing.T) {
		_, err := svc.Authorize(ctx, uuid.New(), ts.User.ID, models.RoleClient)
		assert.ErrorIs(t, err, cases.ErrCaseNotFound)
	})
}

func TestService_SetProbability(t *testing.T) {
	ts := testutil.NewTestContext(t)
	svc := cases.NewService(ts.DB)
	ctx := testutil.TestContext(t)
	c := testutil.CreateTestCase(t, ts.DB, ts.User.ID, nil)

	require.NoError(t, svc.SetProbability(ctx, c.ID, 72))

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProbabilityScore)
	assert.Equal(t, 72, *got.ProbabilityScore)

	assert.ErrorIs(t, svc.SetProbability(ctx, c.ID, 101), cases.ErrInvalidScore)
	assert.ErrorIs(t, svc.SetProbability(ctx, uuid.New(), 10), cases.ErrCaseNotFound)
}
