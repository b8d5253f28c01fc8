package simulator

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

var (
	openEndedPattern  = regexp.MustCompile(`(?i)\?|\b(?:how|what|why)\b|could you|tell me|please explain`)
	productPattern    = regexp.MustCompile(`(?i)recommend|suit|eligib|interest|\brates?\b|tenure|\bemis?\b`)
	objectionPattern  = regexp.MustCompile(`(?i)sorry|understand|concern|worry|issue|instead|\bbut\b|however`)
	progressPattern   = regexp.MustCompile(`(?i)next step|\bapply|submit|documents|process|approval|follow[\s-]?up`)
	compliancePattern = regexp.MustCompile(`(?i)\bterms\b|t&c|disclosure|\bfees?\b|penalty|privacy|consent`)
)

// technicalTerms are counted once each, however often they appear
var technicalTerms = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bemis?\b`),
	regexp.MustCompile(`(?i)interest`),
	regexp.MustCompile(`(?i)cibil`),
	regexp.MustCompile(`(?i)documents`),
	regexp.MustCompile(`(?i)disbursal`),
	regexp.MustCompile(`(?i)eligibility`),
	regexp.MustCompile(`(?i)\bfees\b`),
	regexp.MustCompile(`(?i)penal`),
	regexp.MustCompile(`(?i)\brates?\b`),
}

var (
	staticSuggestions = []string{
		"Ask more open-ended diagnostic questions early in the call.",
		"Give clearer product recommendations tied to customer needs.",
		"State explicit next steps and documentation requirements.",
	}
	staticAreas = []string{
		"Needs stronger needs-analysis phase",
		"Add concise product benefits and rates",
		"Include compliance disclosures when discussing costs",
	}
	staticDetailed = entities.DetailedSuggestions{
		ConversationFlow: []string{
			"Start with a clear needs-analysis question and summarize the customer goals",
			"Use an explicit close or next step after giving product options",
		},
		ProductKnowledge: []string{
			"Reference eligibility criteria and sample EMIs to make recommendations tangible",
			"Mention documentation and timelines when proposing an application",
		},
		CommunicationStyle: []string{
			"Use empathic acknowledgements and shorter, clearer sentences",
			"Confirm understanding by asking a recap question",
		},
	}
)

func anyMatch(p *regexp.Regexp, msgs []string) bool {
	for _, m := range msgs {
		if p.MatchString(m) {
			return true
		}
	}
	return false
}

func pick(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}

func roundMean(vals ...int) int {
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(vals))))
}

// GenerateAnalysis scores the agent's side of a transcript.
// Coaching text is fixed; only scores and strengths depend on the transcript.
func GenerateAnalysis(t entities.Transcript, scenario entities.ScenarioKey) *entities.AnalysisReport {
	var agentMsgs []string
	for _, m := range t {
		if m.Sender == entities.SenderAgent {
			agentMsgs = append(agentMsgs, strings.TrimSpace(m.Content))
		}
	}
	agentText := strings.Join(agentMsgs, " ")

	openEnded := anyMatch(openEndedPattern, agentMsgs)
	sales := roundMean(
		pick(openEnded, 80, 40),
		pick(anyMatch(productPattern, agentMsgs), 80, 50),
		pick(anyMatch(objectionPattern, agentMsgs), 70, 40),
		pick(anyMatch(progressPattern, agentMsgs), 75, 40),
	)

	terms := 0
	for _, p := range technicalTerms {
		if p.MatchString(agentText) {
			terms++
		}
	}
	technical := 50 + 10*terms
	if technical > 100 {
		technical = 100
	}

	compliant := compliancePattern.MatchString(agentText)
	compliance := pick(compliant, 75, 55)

	salesStrengths := []string{"Some product guidance present"}
	if openEnded {
		salesStrengths = []string{"Some open-ended questions and diagnostic prompts"}
	}
	techStrengths := []string{"Basic product descriptions present"}
	if terms > 0 {
		techStrengths = []string{"Used relevant product/technical terminology"}
	}
	complianceStrengths := []string{"Neutral and non-misleading tone"}
	if compliant {
		complianceStrengths = []string{"Mentions T&C or fees"}
	}

	if scenario == "" {
		scenario = entities.KeyGeneral
	}

	return &entities.AnalysisReport{
		OverallScore:        roundMean(sales, technical, compliance),
		Comments:            fmt.Sprintf("Automated heuristic feedback for the %s scenario, generated by the local conversation simulator.", scenario),
		Suggestions:         append([]string(nil), staticSuggestions...),
		AreasForImprovement: append([]string(nil), staticAreas...),
		PerformanceMetrics: entities.PerformanceMetrics{
			SalesEffectiveness:   entities.CategoryScore{Score: sales, Strengths: salesStrengths},
			TechnicalProficiency: entities.CategoryScore{Score: technical, Strengths: techStrengths},
			ComplianceEthics:     entities.CategoryScore{Score: compliance, Strengths: complianceStrengths},
			DetailedSuggestions: entities.DetailedSuggestions{
				ConversationFlow:   append([]string(nil), staticDetailed.ConversationFlow...),
				ProductKnowledge:   append([]string(nil), staticDetailed.ProductKnowledge...),
				CommunicationStyle: append([]string(nil), staticDetailed.CommunicationStyle...),
			},
		},
	}
}
