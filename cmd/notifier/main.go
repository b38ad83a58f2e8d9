package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/config"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

// 通知タイプごとのメールテンプレートと件名
var notificationKinds = map[string]struct {
	templatePath string
	subject      string
}{
	"shift_confirmed": {
		templatePath: "./templates/shift_confirmed_email.html",
		subject:      "シフト管理システム - シフト確定のお知らせ",
	},
	"reset_password": {
		templatePath: "./templates/reset_password_otp_email.html",
		subject:      "シフト管理システム - パスワード再設定",
	},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("notifier を起動できませんでした", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("設定を読み込めませんでした: %w", err)
	}

	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		return fmt.Errorf("メールクライアントを作成できませんでした: %w", err)
	}
	defer client.Close()

	// メールサーバーへ接続できるかを確認する
	dialCtx, cancelDial := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancelDial()
	if err := client.DialWithContext(dialCtx); err != nil {
		return fmt.Errorf("メールサーバーに接続できませんでした: %w", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		return fmt.Errorf("RabbitMQ に接続できませんでした: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("チャネルを開けませんでした: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"notification_queue", // キュー名
		true,                 // 永続化する
		false,                // 消費者がいなくてもキューを自動削除しない
		false,                // 排他にしない
		false,                // RabbitMQ の応答を待つ
		nil,                  // 追加引数
	)
	if err != nil {
		return fmt.Errorf("キューを宣言できませんでした: %w", err)
	}

	// 自動 ack はせず、送信の成否で ack / nack を切り替える
	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("メッセージを消費できませんでした: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				deliver(logger, cfg, client, msg)
			}
		}
	}()

	logger.Info("メッセージを待機しています...（CTRL+C で終了）")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("notifier を停止しています...")
	cancel()
	wg.Wait()
	logger.Info("notifier を停止しました")

	return nil
}

// deliver は通知メッセージ 1 件をメールとして送信する。
// 組み立てに失敗したメッセージは破棄し、送信に失敗したメッセージはキューへ戻す
func deliver(logger *slog.Logger, cfg *config.Config, client *mail.Client, msg amqp.Delivery) {
	logger.Info("メッセージを受信しました", "message", string(msg.Body))

	m, err := buildMail(cfg, msg.Body)
	if err != nil {
		logger.Error("メールを組み立てられませんでした", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	if err := client.DialAndSend(m); err != nil {
		logger.Error("メールを送信できませんでした", "error", err)
		_ = msg.Nack(false, true) // メッセージを再度キューに戻す
		return
	}

	_ = msg.Ack(false)
}

func buildMail(cfg *config.Config, body []byte) (*mail.Msg, error) {
	notification := domain.NotificationMessage{}
	if err := json.Unmarshal(body, &notification); err != nil {
		return nil, fmt.Errorf("通知メッセージを復元できませんでした: %w", err)
	}

	kind, ok := notificationKinds[notification.Type]
	if !ok {
		return nil, fmt.Errorf("未対応の通知タイプです: %s", notification.Type)
	}

	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		return nil, err
	}
	if err := m.To(notification.To); err != nil {
		return nil, err
	}
	m.Subject(kind.subject)

	tmpl, err := template.ParseFiles(kind.templatePath)
	if err != nil {
		return nil, fmt.Errorf("メールテンプレートを読み込めませんでした: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(tmpl, notification.Data); err != nil {
		return nil, err
	}

	return m, nil
}
