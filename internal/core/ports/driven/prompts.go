package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not customised, implementations return the built-in default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptReviewSystem is the system prompt for answering questions from reviews.
	// The template expects a {context} placeholder for the retrieved reviews.
	PromptReviewSystem = "review_system"

	// PromptReviewHuman wraps the user question.
	// The template expects a {question} placeholder.
	PromptReviewHuman = "review_human"
)
