package quota

import (
	"fmt"
	"time"

	"github.com/umputun/feedgate/pkg/domain"
)

// decision is the outcome of the admission pipeline over a single quota state
type decision struct {
	result    domain.AdmissionResult
	violation *domain.ViolationRecord // nil for allowed results and open circuits
	disable   bool                    // cost breach with auto-disable
}

// decide runs the ordered admission checks, the first failing check wins.
// It is a pure function of state, now and itemCount; zero limits are not enforced.
func decide(st *domain.QuotaState, now time.Time, itemCount int) decision {
	cfg, usage := st.Config, st.Usage
	feedID := cfg.FeedID

	if !cfg.IsActive || cfg.EmergencyStopEnabled {
		return decision{result: domain.Deny(domain.ReasonCircuitOpen, "circuit open")}
	}

	if cfg.MaxPerDay > 0 {
		if n := usage.DayCountAt(now); n >= cfg.MaxPerDay {
			msg := fmt.Sprintf("daily limit of %d jobs reached", cfg.MaxPerDay)
			return denied(domain.ReasonFrequencyLimit, msg, violation(feedID, now, domain.ViolationFrequencyLimit,
				float64(cfg.MaxPerDay), float64(n), domain.ActionQueueBlocked, msg))
		}
	}

	if cfg.MaxPerHour > 0 {
		if n := usage.HourCountAt(now); n >= cfg.MaxPerHour {
			msg := fmt.Sprintf("hourly limit of %d jobs reached", cfg.MaxPerHour)
			return denied(domain.ReasonFrequencyLimit, msg, violation(feedID, now, domain.ViolationFrequencyLimit,
				float64(cfg.MaxPerHour), float64(n), domain.ActionLogged, msg))
		}
	}

	if cfg.MinIntervalMinutes > 0 && usage.LastAdmittedAt != nil {
		minInterval := time.Duration(cfg.MinIntervalMinutes) * time.Minute
		if since := now.Sub(*usage.LastAdmittedAt); since < minInterval {
			msg := fmt.Sprintf("%s since last job, minimum interval is %s", since.Round(time.Second), minInterval)
			return denied(domain.ReasonIntervalLimit, msg, violation(feedID, now, domain.ViolationIntervalLimit,
				float64(cfg.MinIntervalMinutes), since.Minutes(), domain.ActionLogged, msg))
		}
	}

	if cfg.MaxItemsPerJob > 0 && itemCount > cfg.MaxItemsPerJob {
		msg := fmt.Sprintf("%d items exceed the limit of %d per job", itemCount, cfg.MaxItemsPerJob)
		return denied(domain.ReasonItemLimit, msg, violation(feedID, now, domain.ViolationItemLimit,
			float64(cfg.MaxItemsPerJob), float64(itemCount), domain.ActionLogged, msg))
	}

	if cfg.DailyCostLimit > 0 {
		if cost := usage.DayCostAt(now); cost >= cfg.DailyCostLimit {
			msg := fmt.Sprintf("daily cost $%.4f reached the limit of $%.4f", cost, cfg.DailyCostLimit)
			return costDenied(cfg, now, cfg.DailyCostLimit, cost, msg)
		}
	}

	if cfg.MonthlyCostLimit > 0 {
		if cost := usage.MonthCostAt(now); cost >= cfg.MonthlyCostLimit {
			msg := fmt.Sprintf("monthly cost $%.4f reached the limit of $%.4f", cost, cfg.MonthlyCostLimit)
			return costDenied(cfg, now, cfg.MonthlyCostLimit, cost, msg)
		}
	}

	return decision{result: domain.Allow()}
}

func costDenied(cfg domain.QuotaConfig, now time.Time, limit, actual float64, msg string) decision {
	action := domain.ActionLogged
	if cfg.AutoDisableOnCostBreach {
		action = domain.ActionDisabled
	}
	d := denied(domain.ReasonCostLimit, msg, violation(cfg.FeedID, now, domain.ViolationCostLimit, limit, actual, action, msg))
	d.disable = cfg.AutoDisableOnCostBreach
	return d
}

func denied(reason domain.DenyReason, msg string, v domain.ViolationRecord) decision {
	return decision{result: domain.Deny(reason, msg), violation: &v}
}

func violation(feedID int64, now time.Time, vt domain.ViolationType, limit, actual float64,
	action domain.ActionTaken, msg string) domain.ViolationRecord {
	return domain.ViolationRecord{
		FeedID:        feedID,
		ViolationType: vt,
		OccurredAt:    now,
		LimitValue:    limit,
		ActualValue:   actual,
		ActionTaken:   action,
		Message:       msg,
	}
}
