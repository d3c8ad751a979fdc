// pkg/registry/schema.go
package registry

// Kind is the rendering primitive a region is written with.
type Kind string

const (
	KindScore Kind = "score"
	KindText  Kind = "text"
	KindTags  Kind = "tags"
	KindList  Kind = "list"
	KindStars Kind = "stars"
)

// Section names; they match the payload keys of the optional sections.
const (
	SectionScores                = "scores"
	SectionBusinessProfile       = "businessProfile"
	SectionTechnicalAssessment   = "technicalAssessment"
	SectionMarketPosition        = "marketPosition"
	SectionClientRelationships   = "clientRelationships"
	SectionBusinessModel         = "businessModel"
	SectionComplianceGrowth      = "complianceGrowth"
	SectionPartnershipEvaluation = "partnershipEvaluation"
	SectionSummary               = "summary"
)

type RegionRegistry struct {
	Version  string    `json:"version"`
	Sections []Section `json:"sections"`
	Regions  []Region  `json:"regions"`
}

type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Optional sections are reset at the start of every render pass.
	Optional bool `json:"optional"`
}

type Region struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Section  string `json:"section"`
	Label    string `json:"label"`
	Fallback string `json:"fallback,omitempty"`
}
