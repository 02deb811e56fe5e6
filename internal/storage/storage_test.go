package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xaenox/flatprice-bot/internal/models"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	sqlite, err := NewSQLiteStorage(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"sqlite": sqlite,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetSession(ctx, 42)
			assert.ErrorIs(t, err, ErrNotFound)

			code, area := 36, 54.5
			s := models.NewSession(42, 7)
			s.State = models.StateAwaitingApartmentType
			s.DistrictCode = &code
			s.DistrictName = "Центр 🏙️"
			s.Area = &area
			require.NoError(t, store.SaveSession(ctx, s))

			got, err := store.GetSession(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, models.StateAwaitingApartmentType, got.State)
			require.NotNil(t, got.DistrictCode)
			assert.Equal(t, 36, *got.DistrictCode)
			require.NotNil(t, got.Area)
			assert.Equal(t, 54.5, *got.Area)
			assert.Nil(t, got.ApartmentTypeCode)
			assert.Equal(t, "Центр 🏙️", got.DistrictName)

			s.State = models.StateAwaitingCurrentFloor
			require.NoError(t, store.SaveSession(ctx, s))
			got, err = store.GetSession(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, models.StateAwaitingCurrentFloor, got.State)

			require.NoError(t, store.DeleteSession(ctx, 42))
			_, err = store.GetSession(ctx, 42)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemorySessionIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	s := models.NewSession(1, 1)
	require.NoError(t, store.SaveSession(ctx, s))
	s.State = models.StateAwaitingArea

	got, err := store.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, got.State)
}

func TestEstimatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				e := &models.Estimate{
					ID:                uuid.New().String(),
					ChatID:            10,
					UserID:            20,
					DistrictCode:      36,
					DistrictName:      "Центр 🏙️",
					ApartmentTypeCode: 2,
					ApartmentTypeName: "2️⃣ 2-комнатная",
					Area:              65,
					CurrentFloor:      5,
					TotalFloors:       10,
					Price:             int64(7_000_000 + i),
					Deviation:         560_000,
					ModelVersion:      "v1",
					CreatedAt:         base.Add(time.Duration(i) * time.Minute),
				}
				require.NoError(t, store.SaveEstimate(ctx, e))
			}
			require.NoError(t, store.SaveEstimate(ctx, &models.Estimate{ID: uuid.New().String(), UserID: 99, Price: 1}))

			list, err := store.GetUserEstimates(ctx, 20, 2, 0)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, int64(7_000_002), list[0].Price)
			assert.Equal(t, int64(7_000_001), list[1].Price)
			assert.Equal(t, "Центр 🏙️", list[0].DistrictName)
			assert.True(t, list[0].CreatedAt.Equal(base.Add(2*time.Minute)))

			list, err = store.GetUserEstimates(ctx, 20, 10, 2)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, int64(7_000_000), list[0].Price)

			list, err = store.GetUserEstimates(ctx, 21, 10, 0)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}
