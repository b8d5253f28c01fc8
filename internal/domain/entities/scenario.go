package entities

import "fmt"

// Scenario is the training topic a conversation is started with
type Scenario string

const (
	ScenarioIncome              Scenario = "income"
	ScenarioArea                Scenario = "area"
	ScenarioInsurance           Scenario = "insurance"
	ScenarioCreditScore         Scenario = "credit_score"
	ScenarioCreditCard          Scenario = "credit-card"
	ScenarioPersonalLoan        Scenario = "personal-loan"
	ScenarioBusinessLoan        Scenario = "business-loan"
	ScenarioSavings             Scenario = "savings"
	ScenarioDemat               Scenario = "demat"
	ScenarioInvestment          Scenario = "investment"
	ScenarioProductCreditCard   Scenario = "product-credit-card"
	ScenarioProductPersonalLoan Scenario = "product-personal-loan"
	ScenarioProductBusinessLoan Scenario = "product-business-loan"
	ScenarioProductSavings      Scenario = "product-savings"
	ScenarioProductDemat        Scenario = "product-demat"
	ScenarioProductInvestment   Scenario = "product-investment"
)

// Scenarios lists every scenario a conversation may be started with
var Scenarios = []Scenario{
	ScenarioIncome, ScenarioArea, ScenarioInsurance, ScenarioCreditScore,
	ScenarioCreditCard, ScenarioPersonalLoan, ScenarioBusinessLoan,
	ScenarioSavings, ScenarioDemat, ScenarioInvestment,
	ScenarioProductCreditCard, ScenarioProductPersonalLoan, ScenarioProductBusinessLoan,
	ScenarioProductSavings, ScenarioProductDemat, ScenarioProductInvestment,
}

// IsValid checks if the scenario is allowed
func (s Scenario) IsValid() bool {
	for _, known := range Scenarios {
		if s == known {
			return true
		}
	}
	return false
}

var openingLines = map[Scenario]string{
	ScenarioCreditCard:   "Hello! I'm interested in getting a credit card but I'm not sure which one would be right for me. Could you help?",
	ScenarioPersonalLoan: "Hi, I need some money for my daughter's wedding next month. Could you explain how personal loans work?",
	ScenarioBusinessLoan: "Hello, I run a small grocery store and I've been thinking about expanding it, but I'm not really sure how to go about getting a loan for it. Can you help me understand what's involved?",
	ScenarioSavings:      "Hi! I just got my first job and want to start saving money properly. What's the best way to save? I heard something about high-interest accounts?",
	ScenarioDemat:        "Hello, I've been thinking about investing in the stock market, but I'm completely new to this. A friend mentioned I need something called a demat account?",
	ScenarioInvestment:   "Hi there! I have some savings that I want to invest wisely. Could you explain my options in simple terms?",
}

// OpeningLine is the customer's first message for the scenario
func (s Scenario) OpeningLine() string {
	if line, ok := openingLines[s]; ok {
		return line
	}
	return fmt.Sprintf("Hi, I'm interested in %s and could use some guidance. Could you explain things in simple terms?", s)
}

// ScenarioKey is the product category inferred from conversation text
type ScenarioKey string

const (
	KeyGeneral      ScenarioKey = "general"
	KeyCreditCard   ScenarioKey = "credit-card"
	KeyPersonalLoan ScenarioKey = "personal-loan"
	KeyBusinessLoan ScenarioKey = "business-loan"
	KeySavings      ScenarioKey = "savings"
	KeyDemat        ScenarioKey = "demat"
	KeyInvestment   ScenarioKey = "investment"
)
