package content

// Difficulty is the requested explanation depth.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Audience is the group the narration is written for.
type Audience string

const (
	AudienceChildren      Audience = "children"
	AudienceStudents      Audience = "students"
	AudienceAdults        Audience = "adults"
	AudienceProfessionals Audience = "professionals"
)

// ContentType steers model selection when quality is prioritized.
type ContentType string

const (
	TypeEducational ContentType = "educational"
	TypeTechnical   ContentType = "technical"
	TypeCreative    ContentType = "creative"
	TypeAnalytical  ContentType = "analytical"
)

// Section is one slide's worth of structured content. After generation every
// field is non-empty; the repair and fallback paths enforce this.
type Section struct {
	Title             string   `json:"title"`
	Subheading        string   `json:"subheading"`
	Content           string   `json:"content"`
	KeyPoints         []string `json:"key_points"`
	VisualDescription string   `json:"visual_description"`
	DurationEstimate  int      `json:"duration_estimate"`
}

// Bundle is the structured explanation produced once per job.
type Bundle struct {
	Summary           string    `json:"summary"`
	KeyConcepts       []string  `json:"key_concepts"`
	Sections          []Section `json:"sections"`
	FullNarration     string    `json:"full_explanation"`
	EstimatedDuration int       `json:"estimated_duration"`
	Topic             string    `json:"topic,omitempty"`
}

// Request carries the validated inputs from the submission surface.
// TargetMinutes of zero means no duration preference.
type Request struct {
	Topic         string
	Difficulty    Difficulty
	Audience      Audience
	ContentType   ContentType
	SpeedPriority bool
	TargetMinutes int
}

const (
	maxSections     = 6
	minKeyPoints    = 3
	maxKeyPoints    = 4
	defaultDuration = 45
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

func (a Audience) Valid() bool {
	switch a {
	case AudienceChildren, AudienceStudents, AudienceAdults, AudienceProfessionals:
		return true
	}
	return false
}

func (c ContentType) Valid() bool {
	switch c {
	case TypeEducational, TypeTechnical, TypeCreative, TypeAnalytical:
		return true
	}
	return false
}
