package entities

// RecommendationType categorizes what a recommendation addresses
type RecommendationType string

const (
	RecommendationWorkload   RecommendationType = "workload"
	RecommendationFocus      RecommendationType = "focus"
	RecommendationPlanning   RecommendationType = "planning"
	RecommendationPriority   RecommendationType = "priority"
	RecommendationScheduling RecommendationType = "scheduling"
)

// ProductivityRecommendation represents one actionable recommendation
// produced by the deterministic rule list.
type ProductivityRecommendation struct {
	ID          string             `json:"id"`
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    Priority           `json:"priority"`
	Impact      int                `json:"impact"` // 0-100
	Actionable  bool               `json:"actionable"`
	ActionText  string             `json:"action_text,omitempty"`
}

// PersonalizedInsights bundles ranked recommendations with narrative
// insight strings. Recommendations are capped at 5, narrative lists at 3.
type PersonalizedInsights struct {
	Recommendations  []ProductivityRecommendation `json:"recommendations"`
	TopInsights      []string                     `json:"top_insights"`
	ImprovementAreas []string                     `json:"improvement_areas"`
	Strengths        []string                     `json:"strengths"`
}

// ScoringContext carries optional caller context for the intelligent
// priority scorer. Every field is independently optional; absent fields
// contribute no bonus.
type ScoringContext struct {
	FocusMode bool     `json:"focus_mode"`
	Location  string   `json:"location,omitempty"`
	Device    string   `json:"device,omitempty"` // e.g. "mobile", "desktop"
	Tags      []string `json:"tags,omitempty"`
}
