package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptCustomerSummary turns a raw customer/ticket block into a short answer.
	// Every PlaceholderCustomerData in the template is replaced by the raw block.
	PromptCustomerSummary = "customer_summary"
)

// PlaceholderCustomerData marks where the raw customer block goes in a
// customer summary template. The rest of the template is used verbatim.
const PlaceholderCustomerData = "{customer_data}"
