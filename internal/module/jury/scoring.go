package jury

import (
	"fmt"
	"math"

	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"
)

const MaxTotalScore = 100

type criterion struct {
	Name  string
	Field string
	Max   float64
	value func(*model.Criteria) float64
}

// criteria 评分细则，下限均为 0，上限之和为 100
var criteria = []criterion{
	{"Concept", "concept_score", 10, func(c *model.Criteria) float64 { return c.ConceptScore }},
	{"Relevance", "relevance_score", 15, func(c *model.Criteria) float64 { return c.RelevanceScore }},
	{"Composition", "composition_score", 10, func(c *model.Criteria) float64 { return c.CompositionScore }},
	{"Balance", "balance_score", 10, func(c *model.Criteria) float64 { return c.BalanceScore }},
	{"Colour", "colour_score", 10, func(c *model.Criteria) float64 { return c.ColourScore }},
	{"Design Relativity", "design_relativity_score", 10, func(c *model.Criteria) float64 { return c.DesignRelativityScore }},
	{"Aesthetic Appeal", "aesthetic_appeal_score", 20, func(c *model.Criteria) float64 { return c.AestheticAppealScore }},
	{"Unconventional Materials", "unconventional_materials_score", 10, func(c *model.Criteria) float64 { return c.UnconventionalMaterialsScore }},
	{"Overall Material", "overall_material_score", 5, func(c *model.Criteria) float64 { return c.OverallMaterialScore }},
}

// ScoreRangeError 某一项评分越界
type ScoreRangeError struct {
	Criterion string
	Field     string
	Min       float64
	Max       float64
	Value     float64
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("%s (%s) 必须在 %g 到 %g 之间，当前为 %g", e.Criterion, e.Field, e.Min, e.Max, e.Value)
}

// ScorePrecisionError 某一项超过两位小数，评分列为 decimal(5,2)
type ScorePrecisionError struct {
	Criterion string
	Field     string
	Value     float64
}

func (e *ScorePrecisionError) Error() string {
	return fmt.Sprintf("%s (%s) 最多保留两位小数，当前为 %g", e.Criterion, e.Field, e.Value)
}

// precisionEpsilon 吸收 8.15*100 这类浮点误差
const precisionEpsilon = 1e-6

func hasTwoDecimals(v float64) bool {
	cents := v * 100
	return math.Abs(cents-math.Round(cents)) < precisionEpsilon
}

// ValidateCriteria 遇到第一个不合法的项即返回
func ValidateCriteria(c model.Criteria) error {
	for _, cr := range criteria {
		v := cr.value(&c)
		if math.IsNaN(v) || v < 0 || v > cr.Max {
			rangeErr := &ScoreRangeError{Criterion: cr.Name, Field: cr.Field, Min: 0, Max: cr.Max, Value: v}
			return response.ErrInvalidScore.WithOrigin(rangeErr).WithTips(rangeErr.Error())
		}
		if !hasTwoDecimals(v) {
			precErr := &ScorePrecisionError{Criterion: cr.Name, Field: cr.Field, Value: v}
			return response.ErrInvalidScore.WithOrigin(precErr).WithTips(precErr.Error())
		}
	}
	return nil
}

// TotalScore 九项之和，不做舍入
func TotalScore(c model.Criteria) float64 {
	var sum float64
	for _, cr := range criteria {
		sum += cr.value(&c)
	}
	return sum
}

// CriterionRange 供前端渲染评分表
type CriterionRange struct {
	Name  string  `json:"name"`
	Field string  `json:"field"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func Criteria() []CriterionRange {
	out := make([]CriterionRange, len(criteria))
	for i, cr := range criteria {
		out[i] = CriterionRange{Name: cr.Name, Field: cr.Field, Min: 0, Max: cr.Max}
	}
	return out
}
