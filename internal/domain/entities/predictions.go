package entities

// TaskPrediction represents predicted outcomes for a single task,
// derived from a similarity search over historical tasks.
type TaskPrediction struct {
	TaskID                  string  `json:"task_id"`
	EstimatedCompletionTime int     `json:"estimated_completion_time_mins"`
	CompletionProbability   float64 `json:"completion_probability"` // 0-100
	OptimalScheduling       string  `json:"optimal_scheduling"`     // 12-hour label
	Confidence              float64 `json:"confidence"`             // 0-90
}

// PredictiveInsights aggregates per-task predictions over the whole
// pending backlog.
type PredictiveInsights struct {
	EstimatedCompletionTime int      `json:"estimated_completion_time_mins"` // sum over pending tasks
	CompletionProbability   float64  `json:"completion_probability"`         // mean over pending tasks
	RecommendedTaskOrder    []string `json:"recommended_task_order"`         // task IDs, best first
	OptimalSchedulingTime   string   `json:"optimal_scheduling_time"`
	ExpectedProductivity    float64  `json:"expected_productivity"` // 0-100
}
