// Package prompt assembles the text sent to the generation session.
package prompt

// Build prefixes question with the retrieved context and the language
// directive. Without context the question is sent as is, after the directive.
func Build(question, context, directive string) string {
	if context == "" {
		return directive + question
	}
	return directive + "Based on the following information: " + context + "\n\nUser query: " + question
}
