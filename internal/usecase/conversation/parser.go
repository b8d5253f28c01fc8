package conversation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

var thinkBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)

// stripThink removes reasoning blocks some models emit before the answer
func stripThink(s string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
}

// extractJSON extracts JSON from markdown code blocks
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
		response = strings.TrimSuffix(response, "```")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
		response = strings.TrimSuffix(response, "```")
	}

	response = strings.TrimSpace(response)

	// Some models wrap the object in prose
	if !strings.HasPrefix(response, "{") {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start >= 0 && end > start {
			response = response[start : end+1]
		}
	}

	return response
}

// Models sometimes return fractional or missing scores, so scores are decoded loosely
type rawCategory struct {
	Score     *float64 `json:"score"`
	Strengths []string `json:"strengths"`
}

type rawReport struct {
	OverallScore        *float64 `json:"overallScore"`
	Comments            string   `json:"comments"`
	Suggestions         []string `json:"suggestions"`
	AreasForImprovement []string `json:"areasForImprovement"`
	PerformanceMetrics  struct {
		SalesEffectiveness   rawCategory                  `json:"salesEffectiveness"`
		TechnicalProficiency rawCategory                  `json:"technicalProficiency"`
		ComplianceEthics     rawCategory                  `json:"complianceEthics"`
		DetailedSuggestions  entities.DetailedSuggestions `json:"detailedSuggestions"`
	} `json:"performanceMetrics"`
}

func scoreOf(v *float64) int {
	if v == nil {
		return 0
	}
	return int(math.Round(*v))
}

func (c rawCategory) toCategory() entities.CategoryScore {
	return entities.CategoryScore{Score: scoreOf(c.Score), Strengths: c.Strengths}
}

// parseAnalysis decodes a model answer into an analysis report
func parseAnalysis(content string) (*entities.AnalysisReport, error) {
	cleaned := extractJSON(stripThink(content))

	var raw rawReport
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	pm := raw.PerformanceMetrics
	return &entities.AnalysisReport{
		OverallScore:        scoreOf(raw.OverallScore),
		Comments:            raw.Comments,
		Suggestions:         raw.Suggestions,
		AreasForImprovement: raw.AreasForImprovement,
		PerformanceMetrics: entities.PerformanceMetrics{
			SalesEffectiveness:   pm.SalesEffectiveness.toCategory(),
			TechnicalProficiency: pm.TechnicalProficiency.toCategory(),
			ComplianceEthics:     pm.ComplianceEthics.toCategory(),
			DetailedSuggestions:  pm.DetailedSuggestions,
		},
	}, nil
}
