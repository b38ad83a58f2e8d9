package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/config"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/optimizer"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/repository"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/seed"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var weekStartDate string

	flag.IntVar(&op, "op", 0, "実行する操作 (1: ランダムなスタッフを挿入, 2: デモ用ロスターを挿入, 3: デモ用シフトを生成, 4: ランダムな管理画面ユーザーを挿入)")
	flag.IntVar(&n, "n", 5, "挿入する件数")
	flag.StringVar(&weekStartDate, "week-start-date", "", "シフトを生成する週の開始日 (YYYY-MM-DD、省略時は今週)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(op, n, weekStartDate); err != nil {
		logger.Error("シードを実行できませんでした", "error", err)
		os.Exit(1)
	}
}

func run(op, n int, weekStartDate string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("設定を読み込めませんでした: %w", err)
	}

	dbpool, err := connect(cfg)
	if err != nil {
		return fmt.Errorf("データベースに接続できませんでした: %w", err)
	}
	defer dbpool.Close()

	repo := repository.NewRepository(cfg, dbpool)

	// 週の開始日が省略された場合は今週の日曜日を使う
	if weekStartDate == "" {
		weekStartDate = optimizer.ToDateKey(optimizer.WeekStartOf(time.Now()))
	}
	if _, err := optimizer.ParseDateKey(weekStartDate); err != nil {
		return fmt.Errorf("週の開始日の形式が正しくありません: %s", weekStartDate)
	}

	switch op {
	case 1:
		return seedRandomStaff(repo, n, weekStartDate)
	case 2:
		seed.SeedDemoRoster(repo)
		return nil
	case 3:
		seed.SeedOptimizedWeek(repo, weekStartDate)
		return nil
	case 4:
		return seedRandomUsers(cfg, repo, n)
	default:
		return fmt.Errorf("指定された操作は不正です: %d", op)
	}
}

func connect(cfg *config.Config) (*sql.DB, error) {
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}

	return dbpool, nil
}

func seedRandomStaff(repo *repository.Repository, n int, weekStartDate string) error {
	if n <= 0 {
		return fmt.Errorf("正しい件数を指定してください: %d", n)
	}

	inserted := 0
	for i := 0; i < n; i++ {
		staff := utils.GenerateRandomStaff(weekStartDate)
		if err := repo.CreateStaff(staff); err != nil {
			slog.Error("スタッフを挿入できませんでした", "error", err)
			continue
		}
		inserted++
	}

	slog.Info("スタッフを挿入しました", "count", inserted)
	return nil
}

func seedRandomUsers(cfg *config.Config, repo *repository.Repository, n int) error {
	if n <= 0 {
		return fmt.Errorf("正しい件数を指定してください: %d", n)
	}

	inserted := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("ユーザーを生成できませんでした", "error", err)
			continue
		}
		if err := repo.CreateUser(user); err != nil {
			slog.Error("ユーザーを挿入できませんでした", "error", err)
			continue
		}
		inserted++
	}

	slog.Info("ユーザーを挿入しました", "count", inserted)
	return nil
}
