package repository

import (
	"encoding/json"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/utils"
)

// スタッフの配列項目（勤務可能シフト・休み希望日・職種）は JSONB 列に格納する

const staffColumns = "id, name, available_shifts, unavailable_dates, skills, experience_level, is_active, created_at, version"

func marshalStaffArrays(staff *domain.Staff) (availableShifts, unavailableDates, skills []byte, err error) {
	if availableShifts, err = json.Marshal(staff.AvailableShifts); err != nil {
		return nil, nil, nil, err
	}
	if unavailableDates, err = json.Marshal(staff.UnavailableDates); err != nil {
		return nil, nil, nil, err
	}
	if skills, err = json.Marshal(staff.Skills); err != nil {
		return nil, nil, nil, err
	}
	return availableShifts, unavailableDates, skills, nil
}

func scanStaffRow(scan func(dst ...any) error) (*domain.Staff, error) {
	var staff domain.Staff
	var availableShifts, unavailableDates, skills []byte

	err := scan(
		&staff.ID,
		&staff.Name,
		&availableShifts,
		&unavailableDates,
		&skills,
		&staff.ExperienceLevel,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.Version,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(availableShifts, &staff.AvailableShifts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(unavailableDates, &staff.UnavailableDates); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &staff.Skills); err != nil {
		return nil, err
	}

	return &staff, nil
}

func (r *Repository) CreateStaff(staff *domain.Staff) error {
	query := `
		INSERT INTO staff (id, name, available_shifts, unavailable_dates, skills, experience_level, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, version
	`

	availableShifts, unavailableDates, skills, err := marshalStaffArrays(staff)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	staff.ID = utils.GenerateRandomID(8, 4)

	return r.dbpool.QueryRowContext(ctx, query,
		staff.ID, staff.Name, availableShifts, unavailableDates, skills, staff.ExperienceLevel, staff.IsActive,
	).Scan(&staff.CreatedAt, &staff.Version)
}

func (r *Repository) listStaff(query string) ([]*domain.Staff, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffList := []*domain.Staff{}
	for rows.Next() {
		staff, err := scanStaffRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		staffList = append(staffList, staff)
	}

	return staffList, rows.Err()
}

func (r *Repository) GetAllStaff() ([]*domain.Staff, error) {
	return r.listStaff("SELECT " + staffColumns + " FROM staff ORDER BY name")
}

func (r *Repository) GetActiveStaff() ([]*domain.Staff, error) {
	return r.listStaff("SELECT " + staffColumns + " FROM staff WHERE is_active = TRUE ORDER BY name")
}

func (r *Repository) GetStaffByID(id string) (*domain.Staff, error) {
	query := "SELECT " + staffColumns + " FROM staff WHERE id = $1"

	ctx, cancel := r.queryContext()
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, id)
	return scanStaffRow(row.Scan)
}

// UpdateStaff は楽観ロック付きで更新する。version が一致しない場合は sql.ErrNoRows を返す
func (r *Repository) UpdateStaff(staff *domain.Staff) error {
	query := `
		UPDATE staff
		SET
			name = $1,
			available_shifts = $2,
			unavailable_dates = $3,
			skills = $4,
			experience_level = $5,
			is_active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	availableShifts, unavailableDates, skills, err := marshalStaffArrays(staff)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query,
		staff.Name, availableShifts, unavailableDates, skills, staff.ExperienceLevel, staff.IsActive, staff.ID, staff.Version,
	).Scan(&staff.Version)
}

func (r *Repository) DeleteStaff(id string) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, "DELETE FROM staff WHERE id = $1", id)
	return err
}
