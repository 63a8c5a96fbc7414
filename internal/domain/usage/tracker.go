// Package usage enforces the process-wide daily quota of AI-enhanced prompts.
package usage

import (
	"fmt"
	"sync"
	"time"
)

// DefaultDailyLimit is the number of AI-enhanced prompts allowed per local
// calendar day.
const DefaultDailyLimit = 30

// nearLimitWarning triggers an informational log threshold this many prompts
// before the limit.
const nearLimitWarning = 5

// Stats is a read-only snapshot of the current day's usage.
type Stats struct {
	Date               string    `json:"date"`
	AIPromptsUsed      int       `json:"aiPromptsUsed"`
	TotalPrompts       int       `json:"totalPrompts"`
	AIPromptsRemaining int       `json:"aiPromptsRemaining"`
	DailyLimit         int       `json:"dailyLimit"`
	IsAtLimit          bool      `json:"isAtLimit"`
	LastPromptAt       time.Time `json:"lastPromptAt,omitzero"`
}

// ResetCountdown is the time remaining until the quota resets at local
// midnight.
type ResetCountdown struct {
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Formatted string `json:"formatted"`
}

// Tracker is the process-wide usage state. All methods are safe for
// concurrent use: the day-rollover check, the quota check and the increment
// always execute under one lock so concurrent requests can never push the
// counter past the daily limit.
type Tracker struct {
	mu           sync.Mutex
	date         string // YYYY-MM-DD, local time
	aiUsed       int
	total        int
	lastPromptAt time.Time

	limit int
	now   func() time.Time // for testing
}

// NewTracker creates a Tracker with the given daily limit. A limit of zero
// or less uses DefaultDailyLimit.
func NewTracker(limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	t := &Tracker{limit: limit, now: time.Now}
	t.date = localDate(t.now())
	return t
}

func localDate(ts time.Time) string {
	return ts.Format("2006-01-02")
}

// rolloverLocked resets all counters when the local date has changed.
// Must be called with t.mu held. Rollover is lazy: it happens on first
// access of a new day, not via a background timer.
func (t *Tracker) rolloverLocked() {
	today := localDate(t.now())
	if t.date == today {
		return
	}
	t.date = today
	t.aiUsed = 0
	t.total = 0
	t.lastPromptAt = time.Time{}
}

// CanUseAI reports whether an AI-enhanced prompt is still allowed today.
// Prefer TryAcquireAI when the caller will consume the slot: CanUseAI
// followed by RecordAIPromptUsed is a check-then-act race.
func (t *Tracker) CanUseAI() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.aiUsed < t.limit
}

// TryAcquireAI atomically checks the quota and claims one AI prompt slot.
// It returns false, without consuming anything, when the limit is reached.
func (t *Tracker) TryAcquireAI() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	if t.aiUsed >= t.limit {
		return false
	}
	t.aiUsed++
	t.total++
	t.lastPromptAt = t.now()
	return true
}

// ReleaseAI returns a slot claimed by TryAcquireAI when the enhancement it
// was claimed for did not happen. The total prompt count is kept: the
// request still produced a (rule-based) prompt.
func (t *Tracker) ReleaseAI() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	if t.aiUsed > 0 {
		t.aiUsed--
	}
}

// RecordAIPromptUsed increments both the AI and total counters. Callers that
// gate on TryAcquireAI must not call this as well.
func (t *Tracker) RecordAIPromptUsed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	t.aiUsed++
	t.total++
	t.lastPromptAt = t.now()
}

// RecordRuleBasedPromptUsed increments the total counter only.
func (t *Tracker) RecordRuleBasedPromptUsed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	t.total++
	t.lastPromptAt = t.now()
}

// NearLimit reports whether usage has entered the warning band below the
// daily limit.
func (t *Tracker) NearLimit() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.aiUsed >= t.limit-nearLimitWarning && t.aiUsed < t.limit
}

// Stats returns a snapshot of today's usage.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()

	remaining := t.limit - t.aiUsed
	if remaining < 0 {
		remaining = 0
	}
	return Stats{
		Date:               t.date,
		AIPromptsUsed:      t.aiUsed,
		TotalPrompts:       t.total,
		AIPromptsRemaining: remaining,
		DailyLimit:         t.limit,
		IsAtLimit:          t.aiUsed >= t.limit,
		LastPromptAt:       t.lastPromptAt,
	}
}

// DailyLimit returns the configured daily limit.
func (t *Tracker) DailyLimit() int {
	return t.limit
}

// TimeUntilReset returns the time remaining until local midnight, when the
// quota resets.
func (t *Tracker) TimeUntilReset() ResetCountdown {
	now := t.now()
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)

	diff := midnight.Sub(now)
	hours := int(diff / time.Hour)
	minutes := int(diff % time.Hour / time.Minute)

	return ResetCountdown{
		Hours:     hours,
		Minutes:   minutes,
		Formatted: fmt.Sprintf("%dh %dm", hours, minutes),
	}
}
