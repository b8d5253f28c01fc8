package simulator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
)

var (
	paymentPattern    = regexp.MustCompile(`\b(?:rates?|interest|emis?|monthly payments?|monthly instal+ments?)\b`)
	documentPattern   = regexp.MustCompile(`\b(?:documents?|documentation|apply|applying|application|kyc|id proof|income proof)\b`)
	recommendPattern  = regexp.MustCompile(`\b(?:recommend\w*|suits?|suitable|best option|products?|offers?|plans?)\b`)
	affordablePattern = regexp.MustCompile(`\b(?:sav\w*|budget|income|salary|afford\w*)\b`)
)

// shortQuestionLimit is the rune count under which an agent question is quoted back
const shortQuestionLimit = 60

// replyContext is everything a rule may look at
type replyContext struct {
	agent         string
	agentLower    string
	customer      string
	customerLower string
	scenario      entities.ScenarioKey
	amount        string
	memory        repetitionMemory
}

type replyRule struct {
	name    string
	matches func(rc *replyContext) bool
	build   func(rc *replyContext) string
}

// replyRules is evaluated top to bottom; the last rule always matches.
var replyRules = []replyRule{
	{
		name:    "payment",
		matches: func(rc *replyContext) bool { return paymentPattern.MatchString(rc.agentLower) },
		build:   paymentQuestion,
	},
	{
		name:    "documents",
		matches: func(rc *replyContext) bool { return documentPattern.MatchString(rc.agentLower) },
		build:   documentQuestion,
	},
	{
		name:    "recommendation",
		matches: func(rc *replyContext) bool { return recommendPattern.MatchString(rc.agentLower) },
		build:   recommendationQuestion,
	},
	{
		name: "clarify-question",
		matches: func(rc *replyContext) bool {
			return utf8.RuneCountInString(rc.agent) < shortQuestionLimit && strings.HasSuffix(rc.agent, "?")
		},
		build: func(rc *replyContext) string {
			return fmt.Sprintf("Could you please clarify what you meant by \"%s\"?", rc.agent)
		},
	},
	{
		name:    "benefit",
		matches: func(rc *replyContext) bool { return rc.customer != "" },
		build: func(rc *replyContext) string {
			return fmt.Sprintf("Based on \"%s\", could you clarify one key benefit for me?", snippet(rc.customer))
		},
	},
	{
		name:    "question-bank",
		matches: func(*replyContext) bool { return true },
		build:   func(rc *replyContext) string { return pickQuestion(rc.scenario, rc.memory) },
	},
}

func paymentQuestion(rc *replyContext) string {
	if rc.amount != "" {
		switch rc.scenario {
		case entities.KeyPersonalLoan:
			return fmt.Sprintf("Could you share the EMI on ₹%s for a 3-year and 5-year plan?", rc.amount)
		case entities.KeyBusinessLoan:
			return fmt.Sprintf("If I borrow ₹%s, what would the EMI look like for 3 or 5 years?", rc.amount)
		default:
			return fmt.Sprintf("Can you estimate the EMI on ₹%s for short and long tenures?", rc.amount)
		}
	}
	if rc.scenario == entities.KeyCreditCard {
		return "What is the interest on dues and the main card fees?"
	}
	return "Could you tell me the EMI range and common tenure options?"
}

func documentQuestion(rc *replyContext) string {
	switch rc.scenario {
	case entities.KeyCreditCard:
		return "Which basic documents do you need for the card, and is approval quick?"
	case entities.KeyBusinessLoan:
		return "What business papers do you check and roughly how long is approval?"
	default:
		return "What simple document list should I prepare and how long is the process?"
	}
}

func recommendationQuestion(rc *replyContext) string {
	if affordablePattern.MatchString(rc.customerLower) {
		if rc.amount != "" {
			return fmt.Sprintf("You recommended that product; with ₹%s income will it stay affordable each month?", rc.amount)
		}
		return "Will that option fit a limited monthly budget?"
	}
	if rc.scenario == entities.KeyCreditCard {
		return "Is there a card with lower fees that is still good for me?"
	}
	return "Can you compare it with one simpler or cheaper option?"
}

// newReplyContext locates the latest agent turn and the customer turn before it
func newReplyContext(t entities.Transcript) *replyContext {
	agentIdx := -1
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Sender == entities.SenderAgent {
			agentIdx = i
			break
		}
	}

	customerEnd := len(t)
	if agentIdx >= 0 {
		customerEnd = agentIdx
	}
	customer := ""
	for i := customerEnd - 1; i >= 0; i-- {
		if t[i].Sender == entities.SenderCustomer {
			customer = strings.TrimSpace(t[i].Content)
			break
		}
	}

	agent := ""
	if agentIdx >= 0 {
		agent = strings.TrimSpace(t[agentIdx].Content)
	}

	var customerTurns []string
	parts := make([]string, 0, len(t))
	for _, m := range t {
		parts = append(parts, m.Content)
		if m.Sender == entities.SenderCustomer {
			customerTurns = append(customerTurns, m.Content)
		}
	}

	return &replyContext{
		agent:         agent,
		agentLower:    strings.ToLower(agent),
		customer:      customer,
		customerLower: strings.ToLower(customer),
		scenario:      ClassifyScenario(agent, customer, strings.Join(parts, "\n")),
		amount:        extractAmount(customer),
		memory:        newRepetitionMemory(customerTurns),
	}
}

func selectRule(rc *replyContext) replyRule {
	for _, rule := range replyRules {
		if rule.matches(rc) {
			return rule
		}
	}
	return replyRules[len(replyRules)-1]
}

// GenerateReply produces the simulated customer's next message for the transcript.
// It is deterministic and never fails; an empty transcript yields a question-bank opener.
func GenerateReply(t entities.Transcript) string {
	rc := newReplyContext(t)

	candidate := selectRule(rc).build(rc)
	if rc.memory.seen(candidate) {
		candidate = pickQuestion(rc.scenario, rc.memory)
	}
	return finalizeReply(candidate)
}
