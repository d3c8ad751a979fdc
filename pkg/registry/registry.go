// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Region IDs of the display surface.
const (
	RegionProbability = "probability"
	RegionReach       = "reach"
	RegionRelevance   = "relevance"

	RegionIndustry        = "industry"
	RegionCompanySize     = "company-size"
	RegionGeographicReach = "geographic-reach"
	RegionYearsInBusiness = "years-in-business"
	RegionPortfolioSize   = "portfolio-size"

	RegionTechStack              = "tech-stack"
	RegionAccessibilitySolutions = "accessibility-solutions"
	RegionIntegrationScore       = "integration-score"
	RegionDevServices            = "dev-services"
	RegionHostingServices        = "hosting-services"

	RegionMarketSegments = "market-segments"
	RegionCompetitors    = "competitors"
	RegionCertifications = "certifications"
	RegionAwards         = "awards"

	RegionClientTypes    = "client-types"
	RegionAvgClientSize  = "avg-client-size"
	RegionRetentionRate  = "retention-rate"
	RegionServiceModel   = "service-model"
	RegionSuccessStories = "success-stories"

	RegionRevenueStreams  = "revenue-streams"
	RegionPricingModel    = "pricing-model"
	RegionSalesApproach   = "sales-approach"
	RegionServiceDelivery = "service-delivery"
	RegionContractTypes   = "contract-types"

	RegionRegulatoryFocus      = "regulatory-focus"
	RegionComplianceServices   = "compliance-services"
	RegionGrowthIndicators     = "growth-indicators"
	RegionDigitalPresenceScore = "digital-presence-score"
	RegionFuturePlans          = "future-plans"

	RegionStrengths           = "strengths"
	RegionChallenges          = "challenges"
	RegionOpportunities       = "opportunities"
	RegionRisks               = "risks"
	RegionRecommendedApproach = "recommended-approach"

	RegionIndicators = "indicators"
	RegionSalesPitch = "sales-pitch"
)

const (
	PlaceholderNA    = "N/A"
	PlaceholderCount = "0"
)

var defaultRegistry = RegionRegistry{
	Version: "1",
	Sections: []Section{
		{ID: SectionScores, Title: "Scores"},
		{ID: SectionBusinessProfile, Title: "Business Profile", Optional: true},
		{ID: SectionTechnicalAssessment, Title: "Technical Assessment", Optional: true},
		{ID: SectionMarketPosition, Title: "Market Position", Optional: true},
		{ID: SectionClientRelationships, Title: "Client Relationships", Optional: true},
		{ID: SectionBusinessModel, Title: "Business Model", Optional: true},
		{ID: SectionComplianceGrowth, Title: "Compliance & Growth", Optional: true},
		{ID: SectionPartnershipEvaluation, Title: "Partnership Evaluation", Optional: true},
		{ID: SectionSummary, Title: "Summary"},
	},
	Regions: []Region{
		{ID: RegionProbability, Kind: KindScore, Section: SectionScores, Label: "Partnership Probability"},
		{ID: RegionReach, Kind: KindScore, Section: SectionScores, Label: "Reach Score"},
		{ID: RegionRelevance, Kind: KindScore, Section: SectionScores, Label: "Relevance Score"},

		{ID: RegionIndustry, Kind: KindText, Section: SectionBusinessProfile, Label: "Industry", Fallback: PlaceholderNA},
		{ID: RegionCompanySize, Kind: KindText, Section: SectionBusinessProfile, Label: "Company Size", Fallback: PlaceholderNA},
		{ID: RegionGeographicReach, Kind: KindText, Section: SectionBusinessProfile, Label: "Geographic Reach", Fallback: PlaceholderNA},
		{ID: RegionYearsInBusiness, Kind: KindText, Section: SectionBusinessProfile, Label: "Years in Business", Fallback: PlaceholderNA},
		{ID: RegionPortfolioSize, Kind: KindText, Section: SectionBusinessProfile, Label: "Client Portfolio Size", Fallback: PlaceholderNA},

		{ID: RegionTechStack, Kind: KindTags, Section: SectionTechnicalAssessment, Label: "Tech Stack"},
		{ID: RegionAccessibilitySolutions, Kind: KindText, Section: SectionTechnicalAssessment, Label: "Accessibility Solutions", Fallback: PlaceholderNA},
		{ID: RegionIntegrationScore, Kind: KindStars, Section: SectionTechnicalAssessment, Label: "Integration Score"},
		{ID: RegionDevServices, Kind: KindTags, Section: SectionTechnicalAssessment, Label: "Development Services"},
		{ID: RegionHostingServices, Kind: KindText, Section: SectionTechnicalAssessment, Label: "Hosting Services", Fallback: PlaceholderNA},

		{ID: RegionMarketSegments, Kind: KindTags, Section: SectionMarketPosition, Label: "Market Segments"},
		{ID: RegionCompetitors, Kind: KindList, Section: SectionMarketPosition, Label: "Competitors"},
		{ID: RegionCertifications, Kind: KindTags, Section: SectionMarketPosition, Label: "Certifications & Memberships"},
		{ID: RegionAwards, Kind: KindList, Section: SectionMarketPosition, Label: "Awards"},

		{ID: RegionClientTypes, Kind: KindTags, Section: SectionClientRelationships, Label: "Client Types"},
		{ID: RegionAvgClientSize, Kind: KindText, Section: SectionClientRelationships, Label: "Average Client Size", Fallback: PlaceholderNA},
		{ID: RegionRetentionRate, Kind: KindText, Section: SectionClientRelationships, Label: "Retention Rate", Fallback: PlaceholderNA},
		{ID: RegionServiceModel, Kind: KindText, Section: SectionClientRelationships, Label: "Service Model", Fallback: PlaceholderNA},
		{ID: RegionSuccessStories, Kind: KindText, Section: SectionClientRelationships, Label: "Success Stories", Fallback: PlaceholderCount},

		{ID: RegionRevenueStreams, Kind: KindTags, Section: SectionBusinessModel, Label: "Revenue Streams"},
		{ID: RegionPricingModel, Kind: KindText, Section: SectionBusinessModel, Label: "Pricing Model", Fallback: PlaceholderNA},
		{ID: RegionSalesApproach, Kind: KindText, Section: SectionBusinessModel, Label: "Sales Approach", Fallback: PlaceholderNA},
		{ID: RegionServiceDelivery, Kind: KindText, Section: SectionBusinessModel, Label: "Service Delivery", Fallback: PlaceholderNA},
		{ID: RegionContractTypes, Kind: KindTags, Section: SectionBusinessModel, Label: "Contract Types"},

		{ID: RegionRegulatoryFocus, Kind: KindTags, Section: SectionComplianceGrowth, Label: "Regulatory Focus"},
		{ID: RegionComplianceServices, Kind: KindTags, Section: SectionComplianceGrowth, Label: "Compliance Services"},
		{ID: RegionGrowthIndicators, Kind: KindList, Section: SectionComplianceGrowth, Label: "Growth Indicators"},
		{ID: RegionDigitalPresenceScore, Kind: KindStars, Section: SectionComplianceGrowth, Label: "Digital Presence"},
		{ID: RegionFuturePlans, Kind: KindList, Section: SectionComplianceGrowth, Label: "Future Plans"},

		{ID: RegionStrengths, Kind: KindList, Section: SectionPartnershipEvaluation, Label: "Strengths"},
		{ID: RegionChallenges, Kind: KindList, Section: SectionPartnershipEvaluation, Label: "Challenges"},
		{ID: RegionOpportunities, Kind: KindList, Section: SectionPartnershipEvaluation, Label: "Opportunities"},
		{ID: RegionRisks, Kind: KindList, Section: SectionPartnershipEvaluation, Label: "Risks"},
		{ID: RegionRecommendedApproach, Kind: KindText, Section: SectionPartnershipEvaluation, Label: "Recommended Approach", Fallback: PlaceholderNA},

		{ID: RegionIndicators, Kind: KindList, Section: SectionSummary, Label: "Key Indicators"},
		{ID: RegionSalesPitch, Kind: KindText, Section: SectionSummary, Label: "Sales Pitch", Fallback: PlaceholderNA},
	},
}

// Default returns a copy of the built-in region registry.
func Default() *RegionRegistry {
	reg := RegionRegistry{
		Version:  defaultRegistry.Version,
		Sections: append([]Section(nil), defaultRegistry.Sections...),
		Regions:  append([]Region(nil), defaultRegistry.Regions...),
	}
	return &reg
}

// LoadRegistry reads a JSON registry, typically to relabel sections and regions.
// Labels and titles are taken from the file; IDs, kinds and sections must match the built-in table.
func LoadRegistry(path string) (*RegionRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg RegionRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return &reg, nil
}

// Validate checks that r describes the same surface as the built-in table.
func (r *RegionRegistry) Validate() error {
	if len(r.Regions) != len(defaultRegistry.Regions) {
		return fmt.Errorf("expected %d regions, got %d", len(defaultRegistry.Regions), len(r.Regions))
	}
	for _, want := range defaultRegistry.Regions {
		got, ok := r.Region(want.ID)
		if !ok {
			return fmt.Errorf("region %q missing", want.ID)
		}
		if got.Kind != want.Kind || got.Section != want.Section {
			return fmt.Errorf("region %q must be %s in section %s", want.ID, want.Kind, want.Section)
		}
	}
	for _, want := range defaultRegistry.Sections {
		got, ok := r.Section(want.ID)
		if !ok {
			return fmt.Errorf("section %q missing", want.ID)
		}
		if got.Optional != want.Optional {
			return fmt.Errorf("section %q optional flag must be %t", want.ID, want.Optional)
		}
	}
	return nil
}

// Region looks up a region by ID.
func (r *RegionRegistry) Region(id string) (Region, bool) {
	for _, reg := range r.Regions {
		if reg.ID == id {
			return reg, true
		}
	}
	return Region{}, false
}

// Section looks up a section by ID.
func (r *RegionRegistry) Section(id string) (Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// RegionsIn returns the regions of a section in table order.
func (r *RegionRegistry) RegionsIn(section string) []Region {
	var out []Region
	for _, reg := range r.Regions {
		if reg.Section == section {
			out = append(out, reg)
		}
	}
	return out
}

// Relabel sets the label of a region or the title of a section.
func (r *RegionRegistry) Relabel(id, label string) bool {
	for i := range r.Regions {
		if r.Regions[i].ID == id {
			r.Regions[i].Label = label
			return true
		}
	}
	for i := range r.Sections {
		if r.Sections[i].ID == id {
			r.Sections[i].Title = label
			return true
		}
	}
	return false
}

// SaveRegistry writes reg as indented JSON, creating parent directories.
func SaveRegistry(reg *RegionRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
