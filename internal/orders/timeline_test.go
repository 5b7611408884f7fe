package orders

import (
	"testing"
	"time"

	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineFreshOrder(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stages := Timeline(types.Order{ID: "O1", CreatedAt: created})

	require.Len(t, stages, 4)
	assert.Equal(t, StagePlaced, stages[0].Name)
	assert.True(t, stages[0].Completed)
	assert.Equal(t, created, stages[0].At)

	assert.False(t, stages[1].Completed)
	assert.False(t, stages[2].Completed)
	assert.False(t, stages[3].Completed)
}

func TestTimelinePaymentOnlyFlipsPaymentStage(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	paid := created.Add(2 * time.Hour)
	stages := Timeline(types.Order{CreatedAt: created, IsPaid: true, PaidAt: &paid})

	assert.True(t, stages[1].Completed)
	assert.Equal(t, paid, stages[1].At)
	assert.False(t, stages[2].Completed, "payment alone does not ship")
	assert.False(t, stages[3].Completed)
}

func TestTimelinePaidWithoutTimestampFallsBackToCreation(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stages := Timeline(types.Order{CreatedAt: created, IsPaid: true})

	assert.True(t, stages[1].Completed)
	assert.Equal(t, created, stages[1].At)
}

func TestTimelineDeliveredCompletesShippedToo(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	delivered := created.Add(72 * time.Hour)
	stages := Timeline(types.Order{CreatedAt: created, IsPaid: true, IsDelivered: true, DeliveredAt: &delivered})

	// the record carries a single delivered flag, so both stages flip together
	assert.True(t, stages[2].Completed)
	assert.True(t, stages[3].Completed)
	assert.Equal(t, delivered, stages[3].At)
}
