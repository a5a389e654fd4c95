package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
)

// ShouldTriggerDeload decides whether a recovery- or time-triggered deload is
// due. Triggers: 7-day rolling average sleep score below the low-sleep
// threshold (0-100 scale), 7-day rolling average readiness below the
// readiness threshold, or too many days since the last deload. Reasons are
// joined with commas; no trigger yields ("no trigger", false). Days without a
// recorded signal count with neutral-good defaults so missing data never
// spuriously triggers.
func (c Config) ShouldTriggerDeload(signals []domain.RecoverySignal, now time.Time, daysSinceLastDeload int) (bool, string) {
	sleepAvg, readinessAvg := rollingAverages(signals, now, 7)

	var reasons []string
	if sleepAvg < c.LowSleepThreshold {
		reasons = append(reasons, fmt.Sprintf("low sleep (7-day avg %.1f)", sleepAvg))
	}
	if readinessAvg < c.LowReadinessThreshold {
		reasons = append(reasons, fmt.Sprintf("low readiness (7-day avg %.1f)", readinessAvg))
	}
	if daysSinceLastDeload > c.MaxDaysBetweenDeloads {
		reasons = append(reasons, fmt.Sprintf("%d days since last deload", daysSinceLastDeload))
	}
	if len(reasons) == 0 {
		return false, "no trigger"
	}
	return true, strings.Join(reasons, ", ")
}

// rollingAverages computes per-day averages over the trailing window,
// substituting neutral defaults for days with no signal.
func rollingAverages(signals []domain.RecoverySignal, now time.Time, windowDays int) (sleep, readiness float64) {
	byDay := map[string]domain.RecoverySignal{}
	for _, s := range signals {
		byDay[s.Date.Format("2006-01-02")] = s
	}
	var sleepSum, readinessSum float64
	for i := 0; i < windowDays; i++ {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		if s, ok := byDay[day]; ok {
			sleepSum += s.SleepScore
			readinessSum += s.Readiness
		} else {
			sleepSum += domain.DefaultSleepScore
			readinessSum += domain.DefaultReadiness
		}
	}
	n := float64(windowDays)
	return sleepSum / n, readinessSum / n
}
