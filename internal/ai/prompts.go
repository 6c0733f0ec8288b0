package ai

import "fmt"

const (
	// FallbackMessage replaces the reply whenever the upstream call fails.
	FallbackMessage = "Sorry, I am unable to process your request at the moment. Please try again."

	Disclaimer = "⚠️ **Legal Disclaimer**: This AI-generated response is for informational purposes only " +
		"and does not constitute legal advice. Please consult with a licensed attorney for specific " +
		"legal matters concerning your case."
)

// CaseFacts is the minimum a prediction prompt needs about a case.
type CaseFacts struct {
	Type        string
	Title       string
	Description string
}

func legalAdvicePrompt(query string) string {
	return "As a legal AI assistant for LawConnect, provide professional legal guidance for the " +
		"following query. Be informative, accurate, and helpful, but remind the user to consult " +
		"with a licensed attorney for specific legal advice:\n\n" + query
}

func caseProbabilityPrompt(c CaseFacts) string {
	return fmt.Sprintf(`As a legal AI analyst, analyze this case and provide:
1. Success probability percentage (0-100)
2. Key strengths of the case
3. Potential challenges
4. Recommended actions

Case Type: %s
Case Title: %s
Case Description: %s

Provide the probability as a number between 0-100, followed by detailed analysis.`,
		c.Type, c.Title, c.Description)
}

func documentAnalysisPrompt(summary string) string {
	return "As a legal document analyst, review this document summary and provide:\n" +
		"1. Key legal points\n" +
		"2. Potential risks or issues\n" +
		"3. Recommendations\n\n" +
		"Document Summary: " + summary
}
