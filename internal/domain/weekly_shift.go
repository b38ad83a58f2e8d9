package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusOptimizing ShiftStatus = "optimizing"
	ShiftStatusConfirmed  ShiftStatus = "confirmed"
)

type OptimizationPhase string

const (
	PhaseBasic      OptimizationPhase = "basic"
	PhaseConstraint OptimizationPhase = "constraint"
	PhaseManual     OptimizationPhase = "manual"
)

// DayShifts は 1 日分の各シフト区分への配置（スタッフ ID の配列、選出順を保持する）
type DayShifts struct {
	Day     []string `json:"day"`
	Evening []string `json:"evening"`
	Night   []string `json:"night"`
}

// ForShift は指定区分の配置リストを返す
func (d *DayShifts) ForShift(shiftType ShiftType) []string {
	switch shiftType {
	case ShiftDay:
		return d.Day
	case ShiftEvening:
		return d.Evening
	case ShiftNight:
		return d.Night
	}
	return nil
}

type ShiftAssignment struct {
	Date   string    `json:"date"` // YYYY-MM-DD 形式
	Shifts DayShifts `json:"shifts"`
}

type ShiftChange struct {
	Date   string    `json:"date"`
	Shift  ShiftType `json:"shift"`
	From   []string  `json:"from"`
	To     []string  `json:"to"`
	Reason string    `json:"reason"`
}

type ConstraintViolationType string

const (
	ViolationBasic    ConstraintViolationType = "basic"
	ViolationDetailed ConstraintViolationType = "detailed"
	ViolationCustom   ConstraintViolationType = "custom"
)

type ViolationSeverity string

const (
	SeverityError   ViolationSeverity = "error"
	SeverityWarning ViolationSeverity = "warning"
	SeverityInfo    ViolationSeverity = "info"
)

type ConstraintViolation struct {
	Type          ConstraintViolationType `json:"type"`
	Rule          string                  `json:"rule"`
	Severity      ViolationSeverity       `json:"severity"`
	AffectedStaff []string                `json:"affectedStaff"`
	AffectedDates []string                `json:"affectedDates"`
	Message       string                  `json:"message"`
}

type OptimizationStep struct {
	Phase      OptimizationPhase     `json:"phase"`
	Timestamp  time.Time             `json:"timestamp"`
	Changes    []ShiftChange         `json:"changes"`
	Score      int                   `json:"score"`
	Violations []ConstraintViolation `json:"constraintViolations"`
}

// WeeklyShift は 1 週間分のシフト表。WeekStartDate が一意なキーとなる
type WeeklyShift struct {
	ID                  string             `json:"id"`
	WeekStartDate       string             `json:"weekStartDate"` // YYYY-MM-DD 形式
	Status              ShiftStatus        `json:"status"`
	Assignments         []ShiftAssignment  `json:"assignments"`
	OptimizationHistory []OptimizationStep `json:"optimizationHistory"`
	CreatedBy           string             `json:"createdBy"`
	CreatedAt           time.Time          `json:"createdAt"`
	LastModified        time.Time          `json:"lastModified"`
	Version             int32              `json:"-"`
}
