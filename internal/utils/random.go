package utils

import (
	"fmt"
	"math/rand"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/optimizer"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"佐藤", "鈴木", "高橋", "田中", "伊藤", "渡辺", "山本", "中村", "小林", "加藤",
	"吉田", "山田", "佐々木", "山口", "松本", "井上", "木村", "林", "斎藤", "清水",
}
var commonGivenNames = []string{
	"陽子", "恵子", "直樹", "健太", "美咲", "翔太", "愛", "大輔", "さくら", "拓也",
	"真由美", "浩二", "優子", "亮", "千夏", "俊介", "麻衣", "剛", "七海", "勇気",
}

func GenerateRandomJapaneseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	givenName := commonGivenNames[rand.Intn(len(commonGivenNames))]
	return surname + " " + givenName
}

var experienceLevels = []domain.ExperienceLevel{
	domain.ExperienceJunior,
	domain.ExperienceMid,
	domain.ExperienceSenior,
}

func GenerateRandomExperienceLevel() domain.ExperienceLevel {
	return experienceLevels[rand.Intn(len(experienceLevels))]
}

var digits = "0123456789"
var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

func GenerateRandomPassword(length int) string {
	buf := make([]rune, length)
	for i := range buf {
		buf[i] = letters[rand.Intn(len(letters))]
	}
	return string(buf)
}

// GenerateRandomID は英字部と数字部からなるランダムな ID を生成する
func GenerateRandomID(letterLength int, digitLength int) string {
	buf := make([]rune, letterLength+digitLength)
	for i := range buf {
		if i < letterLength {
			buf[i] = letters[rand.Intn(len(letters))]
		} else {
			buf[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(buf)
}

// GenerateRandomShiftTypes は勤務可能なシフト区分の空でないランダムな部分集合を返す
func GenerateRandomShiftTypes() []domain.ShiftType {
	types := make([]domain.ShiftType, len(domain.ShiftOrder))
	copy(types, domain.ShiftOrder)

	// Fisher-Yates でシャッフルした先頭 n 個を取る
	for i := len(types) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		types[i], types[j] = types[j], types[i]
	}

	n := rand.Intn(len(types)) + 1
	return types[:n]
}

// GenerateRandomUnavailableDates は指定した週の中からランダムな休み希望日を生成する
func GenerateRandomUnavailableDates(weekStartDate string, maxCount int) []string {
	weekStart, err := optimizer.ParseDateKey(weekStartDate)
	if err != nil {
		return []string{}
	}

	dates := optimizer.WeekDates(weekStart)
	n := rand.Intn(maxCount + 1)

	unavailable := make([]string, 0, n)
	for i := 0; i < n; i++ {
		unavailable = append(unavailable, optimizer.ToDateKey(dates[rand.Intn(len(dates))]))
	}
	return unavailable
}

var commonSkills = []string{"救急対応", "透析", "手術室", "新人指導", "感染管理"}

// GenerateRandomStaff はシード用のランダムなスタッフを生成する
func GenerateRandomStaff(weekStartDate string) *domain.Staff {
	skillCount := rand.Intn(3)
	skills := make([]string, 0, skillCount)
	for i := 0; i < skillCount; i++ {
		skills = append(skills, commonSkills[rand.Intn(len(commonSkills))])
	}

	return &domain.Staff{
		Name:             GenerateRandomJapaneseName(),
		AvailableShifts:  GenerateRandomShiftTypes(),
		UnavailableDates: GenerateRandomUnavailableDates(weekStartDate, 2),
		Skills:           skills,
		ExperienceLevel:  GenerateRandomExperienceLevel(),
		IsActive:         true,
	}
}

// GenerateRandomUser はシード用のランダムな管理画面ユーザーを生成する
func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	username := "staff" + GenerateRandomID(0, 4)
	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     GenerateRandomJapaneseName(),
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleStaff,
	}

	return user, nil
}
