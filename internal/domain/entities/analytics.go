package entities

import "time"

// Period represents a bounded time window used to scope aggregate
// statistics.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// IsValid checks if the period is one of the supported windows
func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return true
	default:
		return false
	}
}

// Window returns the duration of the period's lookback window
func (p Period) Window() time.Duration {
	switch p {
	case PeriodWeek:
		return 7 * 24 * time.Hour
	case PeriodMonth:
		return 30 * 24 * time.Hour
	case PeriodYear:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

// TrendDirection represents the direction of the completion-rate trend
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// AnalyticsData is the full analytics snapshot for one user and period.
// It is pure data, freshly constructed on every call and fully
// reconstructable from the task snapshot and a reference time.
type AnalyticsData struct {
	Period      Period            `json:"period"`
	Overview    OverviewStats     `json:"overview"`
	Categories  []CategoryStats   `json:"categories"`
	TimeSeries  []TimeSeriesPoint `json:"time_series"`
	Insights    AnalyticsInsights `json:"insights"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// OverviewStats represents headline counts and rates for a period
type OverviewStats struct {
	TotalTasks            int     `json:"total_tasks"`
	CompletedTasks        int     `json:"completed_tasks"`
	PendingTasks          int     `json:"pending_tasks"`
	CompletionRate        int     `json:"completion_rate"` // 0-100, rounded
	AverageTasksPerDay    float64 `json:"average_tasks_per_day"`
	MostProductiveDay     string  `json:"most_productive_day"`
	MostCommonCategory    string  `json:"most_common_category"`
	AverageCompletionTime int     `json:"average_completion_time_mins"`
}

// CategoryStats represents per-category totals and completion
type CategoryStats struct {
	Category              string  `json:"category"`
	TotalTasks            int     `json:"total_tasks"`
	CompletedTasks        int     `json:"completed_tasks"`
	CompletionRate        int     `json:"completion_rate"` // 0-100, rounded
	AveragePriorityWeight float64 `json:"average_priority_weight"`
}

// TimeSeriesPoint represents per-calendar-date totals for charting
type TimeSeriesPoint struct {
	Date           string `json:"date"` // calendar day key, YYYY-MM-DD
	Tasks          int    `json:"tasks"`
	Completed      int    `json:"completed"`
	CompletionRate int    `json:"completion_rate"`
}

// AnalyticsInsights groups the nested insight sections
type AnalyticsInsights struct {
	Productivity ProductivityInsights `json:"productivity"`
	Category     CategoryInsights     `json:"category"`
	Priority     PriorityInsights     `json:"priority"`
	Time         TimeInsights         `json:"time"`
}

// ProductivityInsights captures day-of-week and time-of-day peaks plus a
// bounded streak proxy and trend direction.
type ProductivityInsights struct {
	MostProductiveDay  string         `json:"most_productive_day"`
	MostProductiveTime string         `json:"most_productive_time"`
	AverageTasksPerDay float64        `json:"average_tasks_per_day"`
	CompletionRate     int            `json:"completion_rate"`
	StreakDays         int            `json:"streak_days"` // bounded proxy, not a true consecutive-day streak
	ImprovementTrend   TrendDirection `json:"improvement_trend"`
}

// CategoryInsights captures category activity extremes and balance
type CategoryInsights struct {
	MostActiveCategory    string  `json:"most_active_category"`
	MostCompletedCategory string  `json:"most_completed_category"`
	LeastActiveCategory   string  `json:"least_active_category"`
	CategoryBalance       float64 `json:"category_balance"` // 0-100, higher = more even
}

// PriorityBreakdown holds counts for one fixed priority bucket
type PriorityBreakdown struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// PriorityInsights captures the fixed three-bucket priority distribution
// and the overdue count. Unknown priorities fall into the medium bucket.
type PriorityInsights struct {
	High         PriorityBreakdown `json:"high"`
	Medium       PriorityBreakdown `json:"medium"`
	Low          PriorityBreakdown `json:"low"`
	OverdueTasks int               `json:"overdue_tasks"`
}

// TimeInsights captures completion-time figures and the dominant
// time-of-day bucket. Fastest/slowest categories are degenerate until
// real per-task duration tracking exists, since every category shares
// the same placeholder average.
type TimeInsights struct {
	AverageCompletionTime int    `json:"average_completion_time_mins"`
	FastestCategory       string `json:"fastest_category"`
	SlowestCategory       string `json:"slowest_category"`
	PreferredTime         string `json:"preferred_time"`
}
