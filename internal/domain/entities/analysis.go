package entities

// AnalysisReport is the scored evaluation of a transcript.
// Field names follow the JSON contract shared with model providers.
type AnalysisReport struct {
	OverallScore        int                `json:"overallScore"`
	Comments            string             `json:"comments"`
	Suggestions         []string           `json:"suggestions"`
	AreasForImprovement []string           `json:"areasForImprovement"`
	PerformanceMetrics  PerformanceMetrics `json:"performanceMetrics"`
}

// PerformanceMetrics groups the three category scores
type PerformanceMetrics struct {
	SalesEffectiveness   CategoryScore       `json:"salesEffectiveness"`
	TechnicalProficiency CategoryScore       `json:"technicalProficiency"`
	ComplianceEthics     CategoryScore       `json:"complianceEthics"`
	DetailedSuggestions  DetailedSuggestions `json:"detailedSuggestions"`
}

// CategoryScore is a 0-100 score with the strengths that earned it
type CategoryScore struct {
	Score     int      `json:"score"`
	Strengths []string `json:"strengths"`
}

// DetailedSuggestions holds coaching text per area
type DetailedSuggestions struct {
	ConversationFlow   []string `json:"conversationFlow"`
	ProductKnowledge   []string `json:"productKnowledge"`
	CommunicationStyle []string `json:"communicationStyle"`
}
