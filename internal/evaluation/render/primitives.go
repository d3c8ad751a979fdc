// internal/evaluation/render/primitives.go
package render

import (
	"fmt"

	"partner-evaluator/internal/evaluation/view"
	"partner-evaluator/internal/models"
	"partner-evaluator/pkg/registry"
)

// Every primitive fully overwrites its target, so calling one twice with the
// same input leaves the same content.

// RenderScoreBar writes a bar of score percent and the label "<score>%".
// The bar width is clamped to [0,100]; the label keeps the value as sent.
func RenderScoreBar(target *view.Region, score float64) error {
	return renderScoreBar(target, score, true)
}

func renderScoreBar(target *view.Region, score float64, clamp bool) error {
	if err := expectKind(target, registry.KindScore); err != nil {
		return err
	}
	width := score
	if clamp {
		width = clampPercent(score)
	}
	target.Reset()
	target.Width = width
	target.Text = models.FormatNumber(score) + "%"
	target.Rendered = true
	return nil
}

// RenderTagSet writes one chip per item in input order. Duplicates are kept.
func RenderTagSet(target *view.Region, items []string) error {
	if err := expectKind(target, registry.KindTags); err != nil {
		return err
	}
	return writeItems(target, items)
}

// RenderList writes one entry per item in input order.
func RenderList(target *view.Region, items []string) error {
	if err := expectKind(target, registry.KindList); err != nil {
		return err
	}
	return writeItems(target, items)
}

// RenderStars writes five glyphs; glyph i is filled when i < score.
// Scores above five fill all glyphs and negative scores fill none.
func RenderStars(target *view.Region, score float64) error {
	if err := expectKind(target, registry.KindStars); err != nil {
		return err
	}
	target.Reset()
	target.Stars = make([]bool, view.StarCount)
	for i := range target.Stars {
		target.Stars[i] = float64(i) < score
	}
	target.Rendered = true
	return nil
}

// RenderScalar writes value when it is truthy, otherwise fallback.
func RenderScalar(target *view.Region, value models.Text, fallback string) error {
	if err := expectKind(target, registry.KindText); err != nil {
		return err
	}
	target.Reset()
	if value.Truthy() {
		target.Text = value.String()
	} else {
		target.Text = fallback
	}
	target.Rendered = true
	return nil
}

func writeItems(target *view.Region, items []string) error {
	target.Reset()
	target.Items = append([]string{}, items...)
	target.Rendered = true
	return nil
}

func expectKind(target *view.Region, kind registry.Kind) error {
	if target == nil {
		return fmt.Errorf("nil %s region", kind)
	}
	if target.Kind != kind {
		return fmt.Errorf("region %q is a %s region, not %s", target.ID, target.Kind, kind)
	}
	return nil
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
