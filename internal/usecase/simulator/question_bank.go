package simulator

import "github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"

// genericClarification is used when every bank question has already been asked
const genericClarification = "Could you share a bit more detail so I can respond properly?"

var questionBanks = map[entities.ScenarioKey][]string{
	entities.KeyGeneral: {
		"Could you tell me the basic eligibility I should meet?",
		"What documents will you need from me first?",
		"How long does the overall approval usually take?",
		"Are there any fees or charges I should keep in mind?",
		"What is the simplest first step for me to get started?",
	},
	entities.KeyCreditCard: {
		"What is the minimum income needed for this card?",
		"Could you outline the joining fee and annual fee?",
		"Which documents do you check for a credit card application?",
		"Do I get any interest-free period and how is interest calculated later?",
		"How quickly could I receive the card once approved?",
	},
	entities.KeyPersonalLoan: {
		"What loan amount do you think I could realistically qualify for?",
		"Could you walk me through the EMI for a 3-year plan?",
		"What documents do you verify for a personal loan?",
		"How fast is the approval and disbursal usually?",
		"Are there any prepayment or processing charges I should note?",
	},
	entities.KeyBusinessLoan: {
		"What financial statements do you normally review for a business loan?",
		"Could you explain the working capital options I might consider?",
		"How is the interest rate decided for small business owners?",
		"What collateral, if any, would you look for in my case?",
		"How long is the typical approval timeline?",
	},
	entities.KeySavings: {
		"What is the current interest rate on this savings option?",
		"Is there a minimum balance that I must maintain?",
		"Could you explain the withdrawal or liquidity rules?",
		"Do I get any linked benefits such as debit cards or offers?",
		"How soon can I start once I share my KYC documents?",
	},
	entities.KeyDemat: {
		"What is the simplest way to open the demat account?",
		"Could you list the account opening and annual maintenance charges?",
		"What documents and identity proofs will you need from me?",
		"How do I link this account with trading or banking services?",
		"Roughly how long does activation take after submission?",
	},
	entities.KeyInvestment: {
		"What risk level does this investment option carry?",
		"Could you explain the expected returns in simple terms?",
		"Is there a lock-in period or any exit charge?",
		"What documents or KYC steps must I complete?",
		"How frequently can I review or change my investment plan?",
	},
}

// QuestionBank returns the follow-up questions for a scenario, falling back to the general bank
func QuestionBank(key entities.ScenarioKey) []string {
	bank, ok := questionBanks[key]
	if !ok {
		bank = questionBanks[entities.KeyGeneral]
	}
	out := make([]string, len(bank))
	copy(out, bank)
	return out
}

// pickQuestion returns the first bank question the customer has not effectively asked yet
func pickQuestion(key entities.ScenarioKey, mem repetitionMemory) string {
	for _, q := range questionBanks[key] {
		if !mem.seen(q) {
			return q
		}
	}
	if key != entities.KeyGeneral {
		for _, q := range questionBanks[entities.KeyGeneral] {
			if !mem.seen(q) {
				return q
			}
		}
	}
	return genericClarification
}
