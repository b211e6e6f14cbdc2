package domain

// ProfileEntry is one weighted ingredient of a flavor profile.
type ProfileEntry struct {
	Ingredient string `json:"ingredient" validate:"required"`
	Weight     int64  `json:"weight"`
}

// Profile is ordered; duplicate ingredients each contribute their weight.
type Profile []ProfileEntry

// Match is one profile entry that contributed to a meal's score.
type Match struct {
	Ingredient string `json:"ingredient"`
	Weight     int64  `json:"weight"`
}

type RankedMeal struct {
	MealID  int64   `json:"meal_id"`
	Name    string  `json:"name"`
	Score   int64   `json:"score"`
	Matches []Match `json:"matches"`
}

type RecommendationMeta struct {
	CacheHit     bool   `json:"cache_hit"`
	GeneratedAt  string `json:"generated_at"`
	TotalCount   int    `json:"total_count"`
	IndexVersion int64  `json:"index_version"`
}

type RecommendationResult struct {
	Recommendations []RankedMeal
	CacheHit        bool
	IndexVersion    int64
}

type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusFailed  BatchStatus = "failed"
)

type BatchUserResult struct {
	UserID          int64        `json:"user_id"`
	Recommendations []RankedMeal `json:"recommendations,omitempty"`
	Status          BatchStatus  `json:"status"`
	Error           string       `json:"error,omitempty"`
	Message         string       `json:"message,omitempty"`
}

type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generated_at"`
}

type BatchResponse struct {
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalUsers int               `json:"total_users"`
	Results    []BatchUserResult `json:"results"`
	Summary    BatchSummary      `json:"summary"`
	Metadata   BatchMeta         `json:"metadata"`
}

// IndexStats describes the currently published index snapshot.
type IndexStats struct {
	Version       int64  `json:"version"`
	Ingredients   int    `json:"ingredients"`
	Meals         int    `json:"meals"`
	IndexedTerms  int    `json:"indexed_terms"`
	Postings      int    `json:"postings"`
	SkippedTokens int    `json:"skipped_tokens"`
	BuiltAt       string `json:"built_at"`
}
