// internal/models/evaluation.go
package models

// Payload keys of the three mandatory scores.
const (
	FieldProbability    = "probability"
	FieldReachScore     = "reachScore"
	FieldRelevanceScore = "relevanceScore"
)

// EvaluationResult is the assessment returned by the prediction backend.
// It is built fresh for every response and never mutated after decoding.
type EvaluationResult struct {
	Probability    *float64 `json:"probability"`
	ReachScore     *float64 `json:"reachScore"`
	RelevanceScore *float64 `json:"relevanceScore"`

	BusinessProfile       *BusinessProfile       `json:"businessProfile,omitempty"`
	TechnicalAssessment   *TechnicalAssessment   `json:"technicalAssessment,omitempty"`
	MarketPosition        *MarketPosition        `json:"marketPosition,omitempty"`
	ClientRelationships   *ClientRelationships   `json:"clientRelationships,omitempty"`
	BusinessModel         *BusinessModel         `json:"businessModel,omitempty"`
	ComplianceGrowth      *ComplianceGrowth      `json:"complianceGrowth,omitempty"`
	PartnershipEvaluation *PartnershipEvaluation `json:"partnershipEvaluation,omitempty"`

	Indicators TextList `json:"indicators,omitempty"`
	SalesPitch Text     `json:"salesPitch"`
}

// MissingScores lists the payload keys of mandatory scores that are absent or null.
func (r *EvaluationResult) MissingScores() []string {
	var missing []string
	if r.Probability == nil {
		missing = append(missing, FieldProbability)
	}
	if r.ReachScore == nil {
		missing = append(missing, FieldReachScore)
	}
	if r.RelevanceScore == nil {
		missing = append(missing, FieldRelevanceScore)
	}
	return missing
}

type BusinessProfile struct {
	Industry            Text `json:"industry"`
	CompanySize         Text `json:"companySize"`
	GeographicReach     Text `json:"geographicReach"`
	YearsInBusiness     Text `json:"yearsInBusiness"`
	ClientPortfolioSize Text `json:"clientPortfolioSize"`
}

type TechnicalAssessment struct {
	TechStack              TextList `json:"techStack"`
	AccessibilitySolutions Text     `json:"accessibilitySolutions"`
	IntegrationScore       *Rating  `json:"integrationScore"`
	DevelopmentServices    TextList `json:"developmentServices"`
	HostingServices        Text     `json:"hostingServices"`
}

type MarketPosition struct {
	Segments       TextList `json:"segments"`
	Competitors    TextList `json:"competitors"`
	Certifications TextList `json:"certifications"`
	Memberships    TextList `json:"memberships"`
	Awards         TextList `json:"awards"`
}

// CertificationsAndMemberships returns certifications followed by memberships.
func (m *MarketPosition) CertificationsAndMemberships() TextList {
	out := make(TextList, 0, len(m.Certifications)+len(m.Memberships))
	out = append(out, m.Certifications...)
	return append(out, m.Memberships...)
}

type ClientRelationships struct {
	ClientTypes       TextList `json:"clientTypes"`
	AverageClientSize Text     `json:"averageClientSize"`
	RetentionRate     Text     `json:"retentionRate"`
	ServiceModel      Text     `json:"serviceModel"`
	SuccessStories    Text     `json:"successStories"`
}

type BusinessModel struct {
	RevenueStreams  TextList `json:"revenueStreams"`
	PricingModel    Text     `json:"pricingModel"`
	SalesApproach   Text     `json:"salesApproach"`
	ServiceDelivery Text     `json:"serviceDelivery"`
	ContractTypes   TextList `json:"contractTypes"`
}

type ComplianceGrowth struct {
	RegulatoryFocus      TextList `json:"regulatoryFocus"`
	ComplianceServices   TextList `json:"complianceServices"`
	GrowthIndicators     TextList `json:"growthIndicators"`
	DigitalPresenceScore *Rating  `json:"digitalPresenceScore"`
	FuturePlans          TextList `json:"futurePlans"`
}

type PartnershipEvaluation struct {
	Strengths           TextList `json:"strengths"`
	Challenges          TextList `json:"challenges"`
	Opportunities       TextList `json:"opportunities"`
	Risks               TextList `json:"risks"`
	RecommendedApproach Text     `json:"recommendedApproach"`
}

// Score returns a pointer to v, for building results by hand.
func Score(v float64) *float64 {
	return &v
}
