package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftConfirmedNotificationData struct {
	WeekRange      string `json:"weekRange"`
	WeekStartDate  string `json:"weekStartDate"`
	Score          int    `json:"score"`
	ViolationCount int    `json:"violationCount"`
	ConfirmedBy    string `json:"confirmedBy"`
}

type ResetPasswordNotificationData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}
