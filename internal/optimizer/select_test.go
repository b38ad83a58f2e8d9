package optimizer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

func newTestStaff(id, name string, level domain.ExperienceLevel, shifts []domain.ShiftType, unavailable ...string) *domain.Staff {
	return &domain.Staff{
		ID:               id,
		Name:             name,
		AvailableShifts:  shifts,
		UnavailableDates: unavailable,
		ExperienceLevel:  level,
		IsActive:         true,
	}
}

func allShifts() []domain.ShiftType {
	return []domain.ShiftType{domain.ShiftDay, domain.ShiftEvening, domain.ShiftNight}
}

func TestEligibleStaff(t *testing.T) {
	active := newTestStaff("s1", "あおい", domain.ExperienceMid, allShifts())
	inactive := newTestStaff("s2", "かえで", domain.ExperienceMid, allShifts())
	inactive.IsActive = false
	dayOnly := newTestStaff("s3", "さくら", domain.ExperienceMid, []domain.ShiftType{domain.ShiftDay})
	onHoliday := newTestStaff("s4", "たける", domain.ExperienceMid, allShifts(), "2024-01-08")
	noShifts := newTestStaff("s5", "なつき", domain.ExperienceMid, []domain.ShiftType{})

	roster := []*domain.Staff{active, inactive, dayOnly, onHoliday, noShifts}

	eligible := EligibleStaff(roster, domain.ShiftNight, "2024-01-08")
	require.Len(t, eligible, 1)
	assert.Equal(t, "s1", eligible[0].ID)

	// 休み希望日でなければ対象に入る
	eligible = EligibleStaff(roster, domain.ShiftNight, "2024-01-09")
	require.Len(t, eligible, 2)
	assert.Equal(t, "s1", eligible[0].ID)
	assert.Equal(t, "s4", eligible[1].ID)

	// 勤務可能シフトが空のスタッフはどの区分にも入らない
	for _, shiftType := range domain.ShiftOrder {
		for _, staff := range EligibleStaff(roster, shiftType, "2024-01-09") {
			assert.NotEqual(t, "s5", staff.ID)
		}
	}
}

func TestEligibleStaffPreservesInputOrder(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s3", "さくら", domain.ExperienceJunior, allShifts()),
		newTestStaff("s1", "あおい", domain.ExperienceSenior, allShifts()),
		newTestStaff("s2", "かえで", domain.ExperienceMid, allShifts()),
	}

	eligible := EligibleStaff(roster, domain.ShiftDay, "2024-01-07")
	require.Len(t, eligible, 3)
	assert.Equal(t, "s3", eligible[0].ID)
	assert.Equal(t, "s1", eligible[1].ID)
	assert.Equal(t, "s2", eligible[2].ID)
}

func TestSelectStaffRanking(t *testing.T) {
	junior := newTestStaff("s1", "あおい", domain.ExperienceJunior, allShifts())
	senior := newTestStaff("s2", "さくら", domain.ExperienceSenior, allShifts())
	mid := newTestStaff("s3", "かえで", domain.ExperienceMid, allShifts())

	selected := SelectStaff([]*domain.Staff{junior, senior, mid}, 3)
	assert.Equal(t, []string{"s2", "s3", "s1"}, selected)
}

func TestSelectStaffNameTieBreakIsDeterministic(t *testing.T) {
	a := newTestStaff("s1", "あおい", domain.ExperienceMid, allShifts())
	b := newTestStaff("s2", "かえで", domain.ExperienceMid, allShifts())

	// 入力順によらず、同じ経験レベルでは名前の昇順で選出される
	selected := SelectStaff([]*domain.Staff{b, a}, 2)
	assert.Equal(t, []string{"s1", "s2"}, selected)

	selected = SelectStaff([]*domain.Staff{a, b}, 2)
	assert.Equal(t, []string{"s1", "s2"}, selected)
}

func TestSelectStaffTruncatesToRequiredCount(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s1", "あおい", domain.ExperienceSenior, allShifts()),
		newTestStaff("s2", "かえで", domain.ExperienceMid, allShifts()),
		newTestStaff("s3", "さくら", domain.ExperienceJunior, allShifts()),
	}

	selected := SelectStaff(roster, 2)
	assert.Equal(t, []string{"s1", "s2"}, selected)
}

func TestSelectStaffUnderstaffedReturnsAll(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s1", "あおい", domain.ExperienceJunior, allShifts()),
	}

	// 人数不足はエラーではなく、いるだけ全員を返す
	selected := SelectStaff(roster, 6)
	assert.Equal(t, []string{"s1"}, selected)

	assert.Empty(t, SelectStaff([]*domain.Staff{}, 6))
}

// 別々の週に対する最適化は同時に走るので、選出は並行呼び出しに耐える必要がある
func TestSelectStaffConcurrent(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s4", "たける", domain.ExperienceJunior, allShifts()),
		newTestStaff("s2", "かえで", domain.ExperienceSenior, allShifts()),
		newTestStaff("s3", "さくら", domain.ExperienceMid, allShifts()),
		newTestStaff("s1", "あおい", domain.ExperienceSenior, allShifts()),
	}
	expected := []string{"s1", "s2", "s3"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, expected, SelectStaff(roster, 3))
			}
		}()
	}
	wg.Wait()
}

func TestSelectStaffDoesNotMutateInput(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s3", "さくら", domain.ExperienceJunior, allShifts()),
		newTestStaff("s1", "あおい", domain.ExperienceSenior, allShifts()),
	}

	SelectStaff(roster, 2)
	assert.Equal(t, "s3", roster[0].ID)
	assert.Equal(t, "s1", roster[1].ID)
}
