package repository

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/utils"
)

// 週次シフトは week_start_date を一意なキーとして 1 週につき 1 レコードのみ保持する。
// 配置と最適化履歴は JSONB 列に格納する

const weeklyShiftColumns = "id, week_start_date, status, assignments, optimization_history, created_by, created_at, last_modified, version"

func marshalShiftArrays(shift *domain.WeeklyShift) (assignments, history []byte, err error) {
	if assignments, err = json.Marshal(shift.Assignments); err != nil {
		return nil, nil, err
	}
	if history, err = json.Marshal(shift.OptimizationHistory); err != nil {
		return nil, nil, err
	}
	return assignments, history, nil
}

func scanWeeklyShiftRow(scan func(dst ...any) error) (*domain.WeeklyShift, error) {
	var shift domain.WeeklyShift
	var assignments, history []byte

	err := scan(
		&shift.ID,
		&shift.WeekStartDate,
		&shift.Status,
		&assignments,
		&history,
		&shift.CreatedBy,
		&shift.CreatedAt,
		&shift.LastModified,
		&shift.Version,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(assignments, &shift.Assignments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &shift.OptimizationHistory); err != nil {
		return nil, err
	}

	return &shift, nil
}

func (r *Repository) CreateWeeklyShift(shift *domain.WeeklyShift) error {
	query := `
		INSERT INTO weekly_shifts (id, week_start_date, status, assignments, optimization_history, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, last_modified, version
	`

	assignments, history, err := marshalShiftArrays(shift)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	shift.ID = utils.GenerateRandomID(8, 4)

	return r.dbpool.QueryRowContext(ctx, query,
		shift.ID, shift.WeekStartDate, shift.Status, assignments, history, shift.CreatedBy,
	).Scan(&shift.CreatedAt, &shift.LastModified, &shift.Version)
}

func (r *Repository) GetWeeklyShiftByWeek(weekStartDate string) (*domain.WeeklyShift, error) {
	query := "SELECT " + weeklyShiftColumns + " FROM weekly_shifts WHERE week_start_date = $1"

	ctx, cancel := r.queryContext()
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, weekStartDate)
	return scanWeeklyShiftRow(row.Scan)
}

func (r *Repository) listWeeklyShifts(query string, args ...any) ([]*domain.WeeklyShift, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := []*domain.WeeklyShift{}
	for rows.Next() {
		shift, err := scanWeeklyShiftRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	return shifts, rows.Err()
}

func (r *Repository) GetAllWeeklyShifts() ([]*domain.WeeklyShift, error) {
	return r.listWeeklyShifts(
		"SELECT " + weeklyShiftColumns + " FROM weekly_shifts ORDER BY week_start_date DESC",
	)
}

func (r *Repository) GetWeeklyShiftsByDateRange(startDate, endDate string) ([]*domain.WeeklyShift, error) {
	return r.listWeeklyShifts(
		"SELECT "+weeklyShiftColumns+" FROM weekly_shifts WHERE week_start_date >= $1 AND week_start_date <= $2 ORDER BY week_start_date",
		startDate, endDate,
	)
}

// UpdateWeeklyShift は楽観ロック付きで更新する。version が一致しない場合は sql.ErrNoRows を返す
func (r *Repository) UpdateWeeklyShift(shift *domain.WeeklyShift) error {
	query := `
		UPDATE weekly_shifts
		SET
			status = $1,
			assignments = $2,
			optimization_history = $3,
			last_modified = NOW(),
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING last_modified, version
	`

	assignments, history, err := marshalShiftArrays(shift)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query,
		shift.Status, assignments, history, shift.ID, shift.Version,
	).Scan(&shift.LastModified, &shift.Version)
}

// UpsertWeeklyShiftByWeek は週の開始日でレコードを検索し、存在すれば配置と履歴を
// 上書きし、存在しなければ新規に挿入する。同じ週のレコードが 2 つ存在することはない
func (r *Repository) UpsertWeeklyShiftByWeek(shift *domain.WeeklyShift) error {
	existing, err := r.GetWeeklyShiftByWeek(shift.WeekStartDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.CreateWeeklyShift(shift)
		}
		return err
	}

	existing.Status = shift.Status
	existing.Assignments = shift.Assignments
	existing.OptimizationHistory = shift.OptimizationHistory
	if err := r.UpdateWeeklyShift(existing); err != nil {
		return err
	}

	*shift = *existing
	return nil
}

func (r *Repository) DeleteWeeklyShift(id string) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, "DELETE FROM weekly_shifts WHERE id = $1", id)
	return err
}
