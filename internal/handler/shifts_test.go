package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/config"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

// stubRepository は必要なメソッドだけを差し替えるテスト用の Repository。
// 差し替えていないメソッドの呼び出しは埋め込みの nil インターフェースで panic する
type stubRepository struct {
	Repository
	updateWeeklyShift func(shift *domain.WeeklyShift) error
	getAllStaff       func() ([]*domain.Staff, error)
}

func (s *stubRepository) UpdateWeeklyShift(shift *domain.WeeklyShift) error {
	return s.updateWeeklyShift(shift)
}

func (s *stubRepository) GetAllStaff() ([]*domain.Staff, error) {
	return s.getAllStaff()
}

type stubPublisher struct {
	err       error
	published [][]byte
}

func (p *stubPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg.Body)
	return nil
}

func newConfirmTestHandler(repo Repository, publisher NotificationPublisher) *Handler {
	cfg := &config.Config{}
	cfg.Email.NotifyTo = "ward@meiwakai.example.jp"
	cfg.RabbitMQ.PublishTimeout = 10

	return &Handler{
		config:              cfg,
		repository:          repo,
		notificationChannel: publisher,
	}
}

func confirmRequest(shift *domain.WeeklyShift) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/shifts/"+shift.WeekStartDate+"/confirm", nil)
	ctx := context.WithValue(req.Context(), WeeklyShiftCtx, shift)
	ctx = context.WithValue(ctx, MyInfoCtx, &domain.User{FullName: "田中 直樹"})
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var res Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestConfirmWeeklyShift(t *testing.T) {
	shift := &domain.WeeklyShift{
		ID:            "w1",
		WeekStartDate: "2024-01-07",
		Status:        domain.ShiftStatusOptimizing,
	}

	publisher := &stubPublisher{}
	repo := &stubRepository{
		updateWeeklyShift: func(s *domain.WeeklyShift) error { return nil },
		getAllStaff:       func() ([]*domain.Staff, error) { return []*domain.Staff{}, nil },
	}

	h := newConfirmTestHandler(repo, publisher)
	rec := httptest.NewRecorder()
	h.ConfirmWeeklyShift(rec, confirmRequest(shift))

	res := decodeResponse(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, domain.ShiftStatusConfirmed, shift.Status)

	// 確定通知がキューへ送信される
	require.Len(t, publisher.published, 1)
	var notification domain.NotificationMessage
	require.NoError(t, json.Unmarshal(publisher.published[0], &notification))
	assert.Equal(t, "shift_confirmed", notification.Type)
	assert.Equal(t, "ward@meiwakai.example.jp", notification.To)
}

// 確定の保存が済んでいれば、通知の送信失敗でも確定は成功として応答する
func TestConfirmWeeklyShiftSucceedsWhenNotificationFails(t *testing.T) {
	shift := &domain.WeeklyShift{
		ID:            "w1",
		WeekStartDate: "2024-01-07",
		Status:        domain.ShiftStatusOptimizing,
	}

	updated := false
	repo := &stubRepository{
		updateWeeklyShift: func(s *domain.WeeklyShift) error {
			updated = true
			return nil
		},
		getAllStaff: func() ([]*domain.Staff, error) { return []*domain.Staff{}, nil },
	}

	h := newConfirmTestHandler(repo, &stubPublisher{err: errors.New("チャネルが閉じられました")})
	rec := httptest.NewRecorder()
	h.ConfirmWeeklyShift(rec, confirmRequest(shift))

	assert.Equal(t, http.StatusOK, rec.Code)
	res := decodeResponse(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "シフトを確定しました", res.Message)

	assert.True(t, updated)
	assert.Equal(t, domain.ShiftStatusConfirmed, shift.Status)
}

func TestConfirmWeeklyShiftRejectsAlreadyConfirmed(t *testing.T) {
	shift := &domain.WeeklyShift{
		ID:            "w1",
		WeekStartDate: "2024-01-07",
		Status:        domain.ShiftStatusConfirmed,
	}

	publisher := &stubPublisher{}
	repo := &stubRepository{
		updateWeeklyShift: func(s *domain.WeeklyShift) error {
			t.Fatal("確定済みのシフトが更新されてしまいました")
			return nil
		},
	}

	h := newConfirmTestHandler(repo, publisher)
	rec := httptest.NewRecorder()
	h.ConfirmWeeklyShift(rec, confirmRequest(shift))

	res := decodeResponse(t, rec)
	assert.False(t, res.Success)
	assert.Empty(t, publisher.published)
}
