package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/umputun/feedgate/pkg/domain"
)

// QuotaRepository persists per-feed quota rows and the append-only violation log
type QuotaRepository struct {
	db *sqlx.DB
}

// quotaSQL is a quota row: limits, usage buckets and version
type quotaSQL struct {
	FeedID                  int64           `db:"feed_id"`
	MaxPerDay               int             `db:"max_per_day"`
	MaxPerHour              int             `db:"max_per_hour"`
	MinIntervalMinutes      int             `db:"min_interval_minutes"`
	DailyCostLimit          float64         `db:"daily_cost_limit"`
	MonthlyCostLimit        float64         `db:"monthly_cost_limit"`
	CostAlertThresholdPct   float64         `db:"cost_alert_threshold_pct"`
	MaxItemsPerJob          int             `db:"max_items_per_job"`
	EmergencyStopEnabled    bool            `db:"emergency_stop_enabled"`
	AutoDisableOnErrorRate  sql.NullFloat64 `db:"auto_disable_on_error_rate"`
	AutoDisableOnCostBreach bool            `db:"auto_disable_on_cost_breach"`
	IsActive                bool            `db:"is_active"`
	ViolationsCount         int             `db:"violations_count"`
	LastViolationAt         *time.Time      `db:"last_violation_at"`
	HourStart               time.Time       `db:"hour_start"`
	HourCount               int             `db:"hour_count"`
	DayStart                time.Time       `db:"day_start"`
	DayCount                int             `db:"day_count"`
	DayCost                 float64         `db:"day_cost"`
	MonthStart              time.Time       `db:"month_start"`
	MonthCost               float64         `db:"month_cost"`
	LastAdmittedAt          *time.Time      `db:"last_admitted_at"`
	LastAlertDay            time.Time       `db:"last_alert_day"`
	Version                 int64           `db:"version"`
	ExpectedVersion         int64           `db:"expected_version"`
}

// violationSQL is a row of the violations table
type violationSQL struct {
	ID            int64     `db:"id"`
	FeedID        int64     `db:"feed_id"`
	ViolationType string    `db:"violation_type"`
	OccurredAt    time.Time `db:"occurred_at"`
	LimitValue    float64   `db:"limit_value"`
	ActualValue   float64   `db:"actual_value"`
	ThresholdPct  float64   `db:"threshold_pct"`
	ActionTaken   string    `db:"action_taken"`
	Message       string    `db:"message"`
}

// NewQuotaRepository creates a new quota repository
func NewQuotaRepository(database *sqlx.DB) *QuotaRepository {
	return &QuotaRepository{db: database}
}

// LoadAll returns quota states of all feeds
func (r *QuotaRepository) LoadAll(ctx context.Context) ([]*domain.QuotaState, error) {
	var rows []quotaSQL
	query := "SELECT *, 0 AS expected_version FROM quotas ORDER BY feed_id"
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load quotas: %w", err)
	}
	return lo.Map(rows, func(row quotaSQL, _ int) *domain.QuotaState { return toDomainQuota(&row) }), nil
}

// Get returns quota state of a feed, ErrNotFound if the feed has no quota row
func (r *QuotaRepository) Get(ctx context.Context, feedID int64) (*domain.QuotaState, error) {
	var row quotaSQL
	query := "SELECT *, 0 AS expected_version FROM quotas WHERE feed_id = ?"
	err := r.db.GetContext(ctx, &row, query, feedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quota of feed %d: %w", feedID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get quota: %w", err)
	}
	return toDomainQuota(&row), nil
}

// Save writes the next quota state together with its violation records in one transaction.
// next.Version must be the stored version plus one, version 1 creates the row.
// ErrVersionConflict is returned when the stored row moved on since it was read.
func (r *QuotaRepository) Save(ctx context.Context, next *domain.QuotaState, violations []domain.ViolationRecord) error {
	if next.Version < 1 {
		return fmt.Errorf("quota version %d: %w", next.Version, domain.ErrInvalidArgument)
	}
	row := fromDomainQuota(next)
	row.ExpectedVersion = next.Version - 1

	insert := `
		INSERT INTO quotas (feed_id, max_per_day, max_per_hour, min_interval_minutes, daily_cost_limit,
			monthly_cost_limit, cost_alert_threshold_pct, max_items_per_job, emergency_stop_enabled,
			auto_disable_on_error_rate, auto_disable_on_cost_breach, is_active, violations_count,
			last_violation_at, hour_start, hour_count, day_start, day_count, day_cost, month_start,
			month_cost, last_admitted_at, last_alert_day, version)
		VALUES (:feed_id, :max_per_day, :max_per_hour, :min_interval_minutes, :daily_cost_limit,
			:monthly_cost_limit, :cost_alert_threshold_pct, :max_items_per_job, :emergency_stop_enabled,
			:auto_disable_on_error_rate, :auto_disable_on_cost_breach, :is_active, :violations_count,
			:last_violation_at, :hour_start, :hour_count, :day_start, :day_count, :day_cost, :month_start,
			:month_cost, :last_admitted_at, :last_alert_day, :version)
		ON CONFLICT(feed_id) DO NOTHING
	`
	update := `
		UPDATE quotas SET
			max_per_day = :max_per_day, max_per_hour = :max_per_hour,
			min_interval_minutes = :min_interval_minutes, daily_cost_limit = :daily_cost_limit,
			monthly_cost_limit = :monthly_cost_limit, cost_alert_threshold_pct = :cost_alert_threshold_pct,
			max_items_per_job = :max_items_per_job, emergency_stop_enabled = :emergency_stop_enabled,
			auto_disable_on_error_rate = :auto_disable_on_error_rate,
			auto_disable_on_cost_breach = :auto_disable_on_cost_breach, is_active = :is_active,
			violations_count = :violations_count, last_violation_at = :last_violation_at,
			hour_start = :hour_start, hour_count = :hour_count, day_start = :day_start,
			day_count = :day_count, day_cost = :day_cost, month_start = :month_start,
			month_cost = :month_cost, last_admitted_at = :last_admitted_at,
			last_alert_day = :last_alert_day, version = :version
		WHERE feed_id = :feed_id AND version = :expected_version
	`
	query := update
	if next.Version == 1 {
		query = insert
	}

	return withLockRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		res, err := tx.NamedExecContext(ctx, query, row)
		if err != nil {
			return fmt.Errorf("save quota of feed %d: %w", next.Config.FeedID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("get affected rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("save quota of feed %d at version %d: %w", next.Config.FeedID, row.ExpectedVersion,
				domain.ErrVersionConflict)
		}

		for i := range violations {
			if err := insertViolation(ctx, tx, &violations[i]); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// insertViolation appends a violation row and sets its id
func insertViolation(ctx context.Context, tx *sqlx.Tx, v *domain.ViolationRecord) error {
	row := violationSQL{
		FeedID:        v.FeedID,
		ViolationType: string(v.ViolationType),
		OccurredAt:    v.OccurredAt.UTC(),
		LimitValue:    v.LimitValue,
		ActualValue:   v.ActualValue,
		ThresholdPct:  v.ThresholdPct,
		ActionTaken:   string(v.ActionTaken),
		Message:       v.Message,
	}
	query := `
		INSERT INTO violations (feed_id, violation_type, occurred_at, limit_value, actual_value,
			threshold_pct, action_taken, message)
		VALUES (:feed_id, :violation_type, :occurred_at, :limit_value, :actual_value,
			:threshold_pct, :action_taken, :message)
	`
	res, err := tx.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("insert violation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get violation id: %w", err)
	}
	v.ID = id
	return nil
}

// Violations returns violation records newest first. feedID 0 means all feeds, zero since means no lower bound.
func (r *QuotaRepository) Violations(ctx context.Context, feedID int64, since time.Time, limit int) ([]domain.ViolationRecord, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("*").From("violations")
	if feedID != 0 {
		sb.Where(sb.Equal("feed_id", feedID))
	}
	if !since.IsZero() {
		sb.Where(sb.GreaterEqualThan("occurred_at", since.UTC()))
	}
	sb.OrderBy("occurred_at DESC", "id DESC")
	if limit > 0 {
		sb.Limit(limit)
	}
	query, args := sb.Build()

	var rows []violationSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get violations: %w", err)
	}
	return lo.Map(rows, func(row violationSQL, _ int) domain.ViolationRecord {
		return domain.ViolationRecord{
			ID:            row.ID,
			FeedID:        row.FeedID,
			ViolationType: domain.ViolationType(row.ViolationType),
			OccurredAt:    row.OccurredAt.UTC(),
			LimitValue:    row.LimitValue,
			ActualValue:   row.ActualValue,
			ThresholdPct:  row.ThresholdPct,
			ActionTaken:   domain.ActionTaken(row.ActionTaken),
			Message:       row.Message,
		}
	}), nil
}

// ViolationsSummary counts violations per feed and type since the given time
func (r *QuotaRepository) ViolationsSummary(ctx context.Context, since time.Time) ([]domain.ViolationSummary, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("feed_id", "violation_type", "COUNT(*) AS cnt").From("violations")
	if !since.IsZero() {
		sb.Where(sb.GreaterEqualThan("occurred_at", since.UTC()))
	}
	sb.GroupBy("feed_id", "violation_type")
	sb.OrderBy("feed_id", "violation_type")
	query, args := sb.Build()

	res := []domain.ViolationSummary{}
	if err := r.db.SelectContext(ctx, &res, query, args...); err != nil {
		return nil, fmt.Errorf("get violations summary: %w", err)
	}
	return res, nil
}

func toDomainQuota(row *quotaSQL) *domain.QuotaState {
	st := &domain.QuotaState{
		Config: domain.QuotaConfig{
			FeedID:                  row.FeedID,
			MaxPerDay:               row.MaxPerDay,
			MaxPerHour:              row.MaxPerHour,
			MinIntervalMinutes:      row.MinIntervalMinutes,
			DailyCostLimit:          row.DailyCostLimit,
			MonthlyCostLimit:        row.MonthlyCostLimit,
			CostAlertThresholdPct:   row.CostAlertThresholdPct,
			MaxItemsPerJob:          row.MaxItemsPerJob,
			EmergencyStopEnabled:    row.EmergencyStopEnabled,
			AutoDisableOnCostBreach: row.AutoDisableOnCostBreach,
			IsActive:                row.IsActive,
			ViolationsCount:         row.ViolationsCount,
			LastViolationAt:         utcPtr(row.LastViolationAt),
		},
		Usage: domain.QuotaUsage{
			HourStart:      row.HourStart.UTC(),
			HourCount:      row.HourCount,
			DayStart:       row.DayStart.UTC(),
			DayCount:       row.DayCount,
			DayCost:        row.DayCost,
			MonthStart:     row.MonthStart.UTC(),
			MonthCost:      row.MonthCost,
			LastAdmittedAt: utcPtr(row.LastAdmittedAt),
			LastAlertDay:   row.LastAlertDay.UTC(),
		},
		Version: row.Version,
	}
	if row.AutoDisableOnErrorRate.Valid {
		v := row.AutoDisableOnErrorRate.Float64
		st.Config.AutoDisableOnErrorRate = &v
	}
	return st
}

func fromDomainQuota(st *domain.QuotaState) *quotaSQL {
	row := &quotaSQL{
		FeedID:                  st.Config.FeedID,
		MaxPerDay:               st.Config.MaxPerDay,
		MaxPerHour:              st.Config.MaxPerHour,
		MinIntervalMinutes:      st.Config.MinIntervalMinutes,
		DailyCostLimit:          st.Config.DailyCostLimit,
		MonthlyCostLimit:        st.Config.MonthlyCostLimit,
		CostAlertThresholdPct:   st.Config.CostAlertThresholdPct,
		MaxItemsPerJob:          st.Config.MaxItemsPerJob,
		EmergencyStopEnabled:    st.Config.EmergencyStopEnabled,
		AutoDisableOnCostBreach: st.Config.AutoDisableOnCostBreach,
		IsActive:                st.Config.IsActive,
		ViolationsCount:         st.Config.ViolationsCount,
		LastViolationAt:         utcPtr(st.Config.LastViolationAt),
		HourStart:               st.Usage.HourStart.UTC(),
		HourCount:               st.Usage.HourCount,
		DayStart:                st.Usage.DayStart.UTC(),
		DayCount:                st.Usage.DayCount,
		DayCost:                 st.Usage.DayCost,
		MonthStart:              st.Usage.MonthStart.UTC(),
		MonthCost:               st.Usage.MonthCost,
		LastAdmittedAt:          utcPtr(st.Usage.LastAdmittedAt),
		LastAlertDay:            st.Usage.LastAlertDay.UTC(),
		Version:                 st.Version,
	}
	if st.Config.AutoDisableOnErrorRate != nil {
		row.AutoDisableOnErrorRate = sql.NullFloat64{Float64: *st.Config.AutoDisableOnErrorRate, Valid: true}
	}
	return row
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
