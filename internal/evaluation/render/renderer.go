// internal/evaluation/render/renderer.go
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "partner-evaluator/internal/common/errors"
	"partner-evaluator/internal/common/logger"
	"partner-evaluator/internal/common/metrics"
	"partner-evaluator/internal/common/validation"
	"partner-evaluator/internal/evaluation/view"
	"partner-evaluator/internal/models"
	"partner-evaluator/pkg/registry"
)

type Options struct {
	// ClampBars limits score bar widths to [0,100].
	ClampBars bool
}

// Renderer projects evaluation payloads onto a ViewModel.
type Renderer struct {
	opts   Options
	logger logger.Logger
}

func New(opts Options, log logger.Logger) *Renderer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Renderer{opts: opts, logger: log}
}

// RenderJSON decodes a raw payload and renders it.
// Missing mandatory scores yield a ValidationError; any other decoding or
// shape problem yields a RenderError. Nothing is written in either case.
func (r *Renderer) RenderJSON(raw []byte, vm *view.ViewModel) error {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return apperrors.NewRenderError("invalid JSON payload", err)
	}
	if doc == nil {
		return apperrors.NewRenderError("payload is not an object", nil)
	}

	if missing := missingScores(doc); len(missing) > 0 {
		return apperrors.NewValidationError(missing)
	}

	vr, err := validation.ValidatePayload(doc)
	if err != nil {
		return apperrors.NewRenderError("", err)
	}
	if !vr.Valid {
		return apperrors.NewRenderError(strings.Join(vr.GetErrorMessages(), "; "), nil)
	}

	var result models.EvaluationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return apperrors.NewRenderError("", err)
	}
	return r.Render(&result, vm)
}

// Render writes result to vm in one atomic commit. Every section region is
// reset first, so sections absent from result end up unrendered.
func (r *Renderer) Render(result *models.EvaluationResult, vm *view.ViewModel) (err error) {
	if result == nil {
		return apperrors.NewValidationError([]string{models.FieldProbability, models.FieldReachScore, models.FieldRelevanceScore})
	}
	if missing := result.MissingScores(); len(missing) > 0 {
		return apperrors.NewValidationError(missing)
	}

	defer func() {
		if p := recover(); p != nil {
			err = apperrors.NewRenderError(fmt.Sprint(p), nil)
		}
	}()

	draft := vm.NewDraft()
	draft.ResetAll()

	w := &sectionWriter{draft: draft, registry: vm.Registry(), clamp: r.opts.ClampBars}
	written := w.write(result)
	if w.err != nil {
		return apperrors.NewRenderError("", w.err)
	}
	if err := vm.Commit(draft); err != nil {
		return apperrors.NewRenderError("", err)
	}

	for _, section := range written {
		metrics.RenderedSections.WithLabelValues(section).Inc()
	}
	r.logger.Debug("Evaluation rendered", map[string]interface{}{
		"sections": written,
	})
	return nil
}

func missingScores(doc map[string]interface{}) []string {
	var missing []string
	for _, key := range []string{models.FieldProbability, models.FieldReachScore, models.FieldRelevanceScore} {
		if v, ok := doc[key]; !ok || v == nil {
			missing = append(missing, key)
		}
	}
	return missing
}

// sectionWriter maps payload fields to region writes and keeps the first error.
type sectionWriter struct {
	draft    *view.Draft
	registry *registry.RegionRegistry
	clamp    bool
	err      error
}

func (w *sectionWriter) write(res *models.EvaluationResult) []string {
	written := []string{registry.SectionScores}

	w.score(registry.RegionProbability, *res.Probability)
	w.score(registry.RegionReach, *res.ReachScore)
	w.score(registry.RegionRelevance, *res.RelevanceScore)

	if bp := res.BusinessProfile; bp != nil {
		written = append(written, registry.SectionBusinessProfile)
		w.scalar(registry.RegionIndustry, bp.Industry)
		w.scalar(registry.RegionCompanySize, bp.CompanySize)
		w.scalar(registry.RegionGeographicReach, bp.GeographicReach)
		w.scalar(registry.RegionYearsInBusiness, bp.YearsInBusiness)
		w.scalar(registry.RegionPortfolioSize, bp.ClientPortfolioSize)
	}

	if ta := res.TechnicalAssessment; ta != nil {
		written = append(written, registry.SectionTechnicalAssessment)
		w.tags(registry.RegionTechStack, ta.TechStack)
		w.scalar(registry.RegionAccessibilitySolutions, ta.AccessibilitySolutions)
		w.stars(registry.RegionIntegrationScore, ta.IntegrationScore)
		w.tags(registry.RegionDevServices, ta.DevelopmentServices)
		w.scalar(registry.RegionHostingServices, ta.HostingServices)
	}

	if mp := res.MarketPosition; mp != nil {
		written = append(written, registry.SectionMarketPosition)
		w.tags(registry.RegionMarketSegments, mp.Segments)
		w.list(registry.RegionCompetitors, mp.Competitors)
		w.tags(registry.RegionCertifications, mp.CertificationsAndMemberships())
		w.list(registry.RegionAwards, mp.Awards)
	}

	if cr := res.ClientRelationships; cr != nil {
		written = append(written, registry.SectionClientRelationships)
		w.tags(registry.RegionClientTypes, cr.ClientTypes)
		w.scalar(registry.RegionAvgClientSize, cr.AverageClientSize)
		w.scalar(registry.RegionRetentionRate, cr.RetentionRate)
		w.scalar(registry.RegionServiceModel, cr.ServiceModel)
		w.scalar(registry.RegionSuccessStories, cr.SuccessStories)
	}

	if bm := res.BusinessModel; bm != nil {
		written = append(written, registry.SectionBusinessModel)
		w.tags(registry.RegionRevenueStreams, bm.RevenueStreams)
		w.scalar(registry.RegionPricingModel, bm.PricingModel)
		w.scalar(registry.RegionSalesApproach, bm.SalesApproach)
		w.scalar(registry.RegionServiceDelivery, bm.ServiceDelivery)
		w.tags(registry.RegionContractTypes, bm.ContractTypes)
	}

	if cg := res.ComplianceGrowth; cg != nil {
		written = append(written, registry.SectionComplianceGrowth)
		w.tags(registry.RegionRegulatoryFocus, cg.RegulatoryFocus)
		w.tags(registry.RegionComplianceServices, cg.ComplianceServices)
		w.list(registry.RegionGrowthIndicators, cg.GrowthIndicators)
		w.stars(registry.RegionDigitalPresenceScore, cg.DigitalPresenceScore)
		w.list(registry.RegionFuturePlans, cg.FuturePlans)
	}

	if pe := res.PartnershipEvaluation; pe != nil {
		written = append(written, registry.SectionPartnershipEvaluation)
		w.list(registry.RegionStrengths, pe.Strengths)
		w.list(registry.RegionChallenges, pe.Challenges)
		w.list(registry.RegionOpportunities, pe.Opportunities)
		w.list(registry.RegionRisks, pe.Risks)
		w.scalar(registry.RegionRecommendedApproach, pe.RecommendedApproach)
	}

	written = append(written, registry.SectionSummary)
	w.list(registry.RegionIndicators, res.Indicators)
	w.scalar(registry.RegionSalesPitch, res.SalesPitch)

	return written
}

func (w *sectionWriter) region(id string) *view.Region {
	if w.err != nil {
		return nil
	}
	r, err := w.draft.Region(id)
	if err != nil {
		w.err = err
		return nil
	}
	return r
}

func (w *sectionWriter) apply(id string, fn func(*view.Region) error) {
	r := w.region(id)
	if r == nil {
		return
	}
	if err := fn(r); err != nil {
		w.err = fmt.Errorf("%s: %w", id, err)
	}
}

func (w *sectionWriter) score(id string, v float64) {
	w.apply(id, func(r *view.Region) error { return renderScoreBar(r, v, w.clamp) })
}

func (w *sectionWriter) scalar(id string, v models.Text) {
	fallback := registry.PlaceholderNA
	if def, ok := w.registry.Region(id); ok && def.Fallback != "" {
		fallback = def.Fallback
	}
	w.apply(id, func(r *view.Region) error { return RenderScalar(r, v, fallback) })
}

func (w *sectionWriter) tags(id string, items models.TextList) {
	w.apply(id, func(r *view.Region) error { return RenderTagSet(r, items.Strings()) })
}

func (w *sectionWriter) list(id string, items models.TextList) {
	w.apply(id, func(r *view.Region) error { return RenderList(r, items.Strings()) })
}

func (w *sectionWriter) stars(id string, v *models.Rating) {
	w.apply(id, func(r *view.Region) error { return RenderStars(r, v.Value()) })
}
