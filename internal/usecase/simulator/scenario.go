package simulator

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

type scenarioRule struct {
	key     entities.ScenarioKey
	pattern *regexp.Regexp
}

// Order matters: the first matching rule wins.
var scenarioRules = []scenarioRule{
	{entities.KeyCreditCard, regexp.MustCompile(`credit[\s-]?cards?|creditcard|\bcards?\b`)},
	{entities.KeyPersonalLoan, regexp.MustCompile(`personal[\s-]?loan|\bdaughter|\bwedding|\bmarriage|\bmoney for\b`)},
	{entities.KeyBusinessLoan, regexp.MustCompile(`business[\s-]?loan|\bgrocery|\bshops?\b|\bstores?\b|\bexpand`)},
	{entities.KeySavings, regexp.MustCompile(`\bsavings\b|\baccounts?\b|\bdeposits?\b`)},
	{entities.KeyDemat, regexp.MustCompile(`\bdemat|dematerialized|\bstocks?\b|\bequit(?:y|ies)\b`)},
	{entities.KeyInvestment, regexp.MustCompile(`\binvestments?\b|mutual funds?|\bsips?\b|\bportfolios?\b`)},
}

// ClassifyScenario infers the product category from the given texts.
// Texts are searched in order and each rule is checked against all of them
// before moving to the next rule.
func ClassifyScenario(texts ...string) entities.ScenarioKey {
	lowered := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.ToLower(t); t != "" {
			lowered = append(lowered, t)
		}
	}
	for _, rule := range scenarioRules {
		for _, t := range lowered {
			if rule.pattern.MatchString(t) {
				return rule.key
			}
		}
	}
	return entities.KeyGeneral
}

// ScenarioKeyFor maps a conversation scenario to its product category
func ScenarioKeyFor(s entities.Scenario) entities.ScenarioKey {
	name := strings.TrimPrefix(string(s), "product-")
	if _, ok := questionBanks[entities.ScenarioKey(name)]; ok {
		return entities.ScenarioKey(name)
	}
	return entities.KeyGeneral
}
