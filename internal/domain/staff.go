package domain

import "time"

type ShiftType string

const (
	ShiftDay     ShiftType = "day"     // 日勤
	ShiftEvening ShiftType = "evening" // 準夜
	ShiftNight   ShiftType = "night"   // 深夜
)

// ShiftOrder はシフト区分の固定順序（表示・検証ともにこの順で処理する）
var ShiftOrder = []ShiftType{ShiftDay, ShiftEvening, ShiftNight}

// RequiredStaffCount は各シフト区分の最低配置人数
var RequiredStaffCount = map[ShiftType]int{
	ShiftDay:     6,
	ShiftEvening: 2,
	ShiftNight:   2,
}

type ShiftTime struct {
	Start string
	End   string
	Label string
}

var ShiftTimes = map[ShiftType]ShiftTime{
	ShiftDay:     {Start: "09:00", End: "17:00", Label: "日勤"},
	ShiftEvening: {Start: "17:00", End: "01:00", Label: "準夜"},
	ShiftNight:   {Start: "01:00", End: "09:00", Label: "深夜"},
}

type ExperienceLevel string

const (
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

type Staff struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	AvailableShifts  []ShiftType     `json:"availableShifts"`
	UnavailableDates []string        `json:"unavailableDates"` // YYYY-MM-DD 形式
	Skills           []string        `json:"skills"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	Version          int32           `json:"-"`
}
