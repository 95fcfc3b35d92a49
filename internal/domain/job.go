package domain

// RawJob is a record as produced by a source adapter, before any cleaning.
// Nil pointers mean the upstream value was missing or not a string.
type RawJob struct {
	JobTitle  *string   `json:"job_title"`
	Company   *string   `json:"company"`
	Skills    Skills    `json:"skills"`
	Location  *string   `json:"location"`
	URL       *string   `json:"url"`
	FetchedAt string    `json:"fetched_at"`
	Source    JobSource `json:"source"`
}

// CleanedJob is a deduplicated, normalized posting as stored in the cleaned dataset
type CleanedJob struct {
	JobTitle        string          `json:"job_title"`
	Company         string          `json:"company"`
	Skills          []string        `json:"skills"`
	Location        *string         `json:"location"`
	URL             *string         `json:"url"`
	FetchedAt       string          `json:"fetched_at"`
	Source          JobSource       `json:"source"`
	JobID           string          `json:"job_id"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	NumSkills       int             `json:"num_skills"`
}

// JobSource represents a job listing source
type JobSource string

const (
	SourceRemoteOK  JobSource = "remoteok"
	SourceArbeitnow JobSource = "arbeitnow"
)

// ExperienceLevel is the seniority bucket derived from a job title
type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "Entry-level"
	LevelMid    ExperienceLevel = "Mid-level"
	LevelSenior ExperienceLevel = "Senior"
)

// Levels lists experience levels from junior to senior
var Levels = []ExperienceLevel{LevelEntry, LevelMid, LevelSenior}

// FetchedAtLayout is the wall-clock layout adapters stamp records with
const FetchedAtLayout = "2006-01-02 15:04:05"

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
