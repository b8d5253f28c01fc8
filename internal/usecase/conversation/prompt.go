package conversation

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/simulator"
)

// HistoryWindow is how many earlier messages are replayed to the model on each turn
const HistoryWindow = 12

const (
	defaultScenarioText   = "general scenario"
	defaultAdditionalInfo = "No additional context provided."
	emptyContextText      = "Conversation just started. The customer has not provided details yet."

	// Default persona prompts. They stay free of product words so the simulator
	// classifies the chat by the scenario and the dialogue, not by the persona text.
	defaultEasyPrompt = "You are a customer talking to a bank loan agent in a training role-play about {scenario}. " +
		"You are friendly, curious and new to financial products. Share your needs when asked, " +
		"ask simple questions and answer in one or two short sentences.\n" +
		"Background: {additionalInfo}"
	defaultHardPrompt = "You are a skeptical, busy customer talking to a bank loan agent about {scenario}. " +
		"You question every cost, push back on vague answers and compare what you hear with other lenders. " +
		"Raise at least one concern in each reply and keep it under two sentences.\n" +
		"Background: {additionalInfo}"

	customerRoleInstruction = "You are the CUSTOMER. Every user message comes from the loan agent. " +
		"Respond as a customer would, with questions, concerns, requests for clarification or reactions. " +
		"Do NOT act as an agent."

	freshnessRules = `Memory & freshness rules:
- Do not repeat a question or request that was already asked earlier in this chat.
- If the loan agent already answered a question, acknowledge the answer and drive the conversation forward with a new, related follow-up.
- Reference the agent's most recent reply before asking something new so the dialogue feels natural.
- Vary wording and keep the conversation progressing toward a decision.`

	coachSystemMessage = simulator.CoachRole + " providing detailed feedback on loan agent training conversations."
)

// Prompts holds the persona templates per difficulty.
// Templates may use the {scenario} and {additionalInfo} placeholders.
type Prompts struct {
	Easy string
	Hard string
}

// withDefaults fills empty templates with the built-in personas
func (p Prompts) withDefaults() Prompts {
	if strings.TrimSpace(p.Easy) == "" {
		p.Easy = defaultEasyPrompt
	}
	if strings.TrimSpace(p.Hard) == "" {
		p.Hard = defaultHardPrompt
	}
	return p
}

// systemPrompt renders the persona for difficulty and appends the role and memory rules
func (p Prompts) systemPrompt(difficulty entities.Difficulty, scenario entities.Scenario, additionalInfo string, recent entities.Transcript) string {
	template := p.Easy
	if difficulty == entities.DifficultyHard {
		template = p.Hard
	}

	scenarioText := string(scenario)
	if scenarioText == "" {
		scenarioText = defaultScenarioText
	}
	info := strings.TrimSpace(additionalInfo)
	if info == "" {
		info = defaultAdditionalInfo
	}
	persona := strings.NewReplacer("{scenario}", scenarioText, "{additionalInfo}", info).Replace(template)

	context := simulator.FormatTranscript(recent)
	if context == "" {
		context = emptyContextText
	}

	return strings.Join([]string{
		persona,
		customerRoleInstruction,
		"Conversation context so far (oldest to newest):\n" + context,
		freshnessRules,
	}, "\n\n")
}

// analysisPrompt asks for a JSON coaching report on the transcript
func analysisPrompt(t entities.Transcript, scenario entities.Scenario) string {
	var b strings.Builder
	b.WriteString(simulator.CoachRole)
	b.WriteString(" specializing in banking and financial services. Analyze the following loan agent training conversation and provide your feedback strictly in the JSON format below.\n\n")
	b.WriteString("Overall rating guide: 90-100 Excellent, 75-89 Good, 60-74 Average, 40-59 Below Average, 0-39 Poor.\n\n")
	b.WriteString(simulator.ScoringHeading)
	b.WriteString(":\noverallScore = (salesEffectiveness.score + technicalProficiency.score + complianceEthics.score) / 3\n\n")
	b.WriteString(`Marking Scheme:
1. Sales Effectiveness (100 points, 25% each): needs analysis with open-ended diagnostic questions; product match that recommends a suitable product and explains relevant benefits; objection handling that acknowledges concerns without being defensive; deal progress that moves the customer toward a decision and explains next steps. Award only 5-10% of a sub-score for any element that is missing.
2. Technical Proficiency (100 points): terminology accuracy (40%) such as EMI, interest rate and CIBIL; process accuracy (30%) covering documentation, approval, disbursal, timelines and eligibility; system navigation (30%) where applicable. Give partial credit (5-10%) for missing or vague elements.
3. Compliance & Ethics (100 points): T&C disclosure (40%) of repayment terms, interest rate, fees and penalties; honest, fair selling (30%); data sensitivity and privacy (30%). Penalize missing disclosures or ethical oversights.

Output Format:
Return only a valid JSON object in this exact shape:
{
  "overallScore": 0,
  "comments": "Short summary of performance",
  "suggestions": ["..."],
  "areasForImprovement": ["..."],
  "performanceMetrics": {
    "salesEffectiveness": {"score": 0, "strengths": ["..."]},
    "technicalProficiency": {"score": 0, "strengths": ["..."]},
    "complianceEthics": {"score": 0, "strengths": ["..."]},
    "detailedSuggestions": {
      "conversationFlow": ["..."],
      "productKnowledge": ["..."],
      "communicationStyle": ["..."]
    }
  }
}

`)
	fmt.Fprintf(&b, "%s\n%s\n\n%s\n\n%s %s\n\n", simulator.ConversationLabel, simulator.FormatTranscript(t), simulator.ContextLabel, simulator.ScenarioLabel, scenario)
	b.WriteString("Score each metric using the marking scheme, calculate overallScore as the average of the 3 category scores and return only the JSON object.")
	return b.String()
}
