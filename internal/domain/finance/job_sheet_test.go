package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSheet(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		js, err := NewJobSheet(uuid.New(), "JS-2024-0001", JobSheetItemTypeAP, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, "JS-2024-0001", js.JobSheetNumber)
		assert.Equal(t, JobSheetItemTypeAP, js.ItemType)
		assert.Empty(t, js.APStatus)
		assert.Empty(t, js.ARStatus)
	})

	t.Run("empty number", func(t *testing.T) {
		_, err := NewJobSheet(uuid.New(), "", JobSheetItemTypeAP, uuid.New())
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("invalid item type", func(t *testing.T) {
		_, err := NewJobSheet(uuid.New(), "JS-2024-0001", JobSheetItemType("XX"), uuid.New())
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestJobSheet_EnsureItemType(t *testing.T) {
	js, err := NewJobSheet(uuid.New(), "JS-2024-0001", JobSheetItemTypeAP, uuid.New())
	require.NoError(t, err)

	js.EnsureItemType(JobSheetItemTypeAP)
	assert.Equal(t, JobSheetItemTypeAP, js.ItemType)

	js.EnsureItemType(JobSheetItemTypeAR)
	assert.Equal(t, JobSheetItemTypeAll, js.ItemType, "mixed AP and AR widens to ALL")
}

func TestRollupService_BuildHistogram(t *testing.T) {
	svc := NewRollupService()

	tests := []struct {
		name     string
		statuses []string
		expected StatusCounts
	}{
		{
			name:     "empty",
			statuses: nil,
			expected: StatusCounts{},
		},
		{
			name:     "mixed statuses",
			statuses: []string{"WAITING_APPROVAL", "PAID", "WAITING_APPROVAL", "PARTIALLY_PAID"},
			expected: StatusCounts{"WAITING_APPROVAL": 2, "PAID": 1, "PARTIALLY_PAID": 1},
		},
		{
			name:     "single status",
			statuses: []string{"APPROVED", "APPROVED", "APPROVED"},
			expected: StatusCounts{"APPROVED": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.BuildHistogram(tt.statuses)

			assert.Equal(t, tt.expected, got)
			assert.Equal(t, len(tt.statuses), got.Total(), "histogram must sum to the child count")
		})
	}
}

func TestJobSheet_ApplyRollup(t *testing.T) {
	js, err := NewJobSheet(uuid.New(), "JS-2024-0001", JobSheetItemTypeAll, uuid.New())
	require.NoError(t, err)
	versionBefore := js.GetVersion()

	js.ApplyAPRollup(StatusCounts{"APPROVED": 1, "PAID": 2})
	js.ApplyARRollup(StatusCounts{"PENDING": 1})

	assert.Equal(t, StatusCounts{"APPROVED": 1, "PAID": 2}, js.APStatus)
	assert.Equal(t, StatusCounts{"PENDING": 1}, js.ARStatus)
	assert.Greater(t, js.GetVersion(), versionBefore)

	// a later recompute replaces the histogram wholesale
	js.ApplyAPRollup(StatusCounts{"PAID": 3})
	assert.Equal(t, StatusCounts{"PAID": 3}, js.APStatus)
}
