package handler

type ContextKey string

var (
	RoleCtxKey     ContextKey = "role"
	SubCtxKey      ContextKey = "sub"
	MyInfoCtx      ContextKey = "myInfo"
	StaffCtx       ContextKey = "staff"
	WeeklyShiftCtx ContextKey = "weeklyShift"
)
