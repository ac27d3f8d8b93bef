package staff

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
)

const tableName = "staff"

var columns = []string{
	"id",
	"shop_id",
	"name",
	"working_days",
	"opens_at",
	"closes_at",
	"active",
}

// Repository репозиторий мастеров салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает мастера по ID (в том числе неактивного)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(ctx, "GetByID", query, args)
}

// GetByIDForShare перечитывает мастера с блокировкой строки FOR SHARE.
// В сериализуемой транзакции строка, измененная после снимка, дает 40001.
func (r *Repository) GetByIDForShare(ctx context.Context, id int64) (*domain.StaffMember, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR SHARE").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDForShare - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(ctx, "GetByIDForShare", query, args)
}

func (r *Repository) scanOne(ctx context.Context, op, query string, args []interface{}) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var staff domain.StaffMember
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.ShopID,
		&staff.Name,
		&staff.WorkingDays,
		&staff.OpensAt,
		&staff.ClosesAt,
		&staff.Active,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan staff: %v", ErrScanRow, op, err)
	}

	return &staff, nil
}

// Deactivate помечает мастера неактивным (мягкое удаление, история записей сохраняется)
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}
