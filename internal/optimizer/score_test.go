package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

func TestScore(t *testing.T) {
	violation := domain.ConstraintViolation{
		Type:     domain.ViolationBasic,
		Rule:     "日勤最低人数",
		Severity: domain.SeverityError,
	}

	tests := []struct {
		name       string
		violations []domain.ConstraintViolation
		expected   int
	}{
		{"違反なしは満点", nil, 100},
		{"違反 1 件で 10 点減点", []domain.ConstraintViolation{violation}, 90},
		{"違反 3 件で 30 点減点", []domain.ConstraintViolation{violation, violation, violation}, 70},
		{"違反 10 件で 0 点", make([]domain.ConstraintViolation, 10), 0},
		{"10 件を超えても負にはならない", make([]domain.ConstraintViolation, 15), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.violations))
		})
	}
}

func TestComputeScore(t *testing.T) {
	shift := newSingleDayShift("2024-01-07", fullDayShifts())
	assert.Equal(t, 100, ComputeScore(shift, fullRoster()))

	// 準夜と深夜を空にすると違反 2 件で 80 点
	shift = newSingleDayShift("2024-01-07", domain.DayShifts{
		Day: []string{"s1", "s2", "s3", "s4", "s5", "s6"},
	})
	assert.Equal(t, 80, ComputeScore(shift, fullRoster()))
}
