package driven

// Prompt names known to the prompt store.
const (
	// PromptAnswer is the template wrapped around the retrieved context
	// and the user's question before generation. It carries two %s
	// slots, filled with the context and the question in that order.
	PromptAnswer = "answer"
)

// PromptStore loads LLM prompt templates, typically from user-editable
// files with embedded defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload discards cached templates, forcing fresh loads.
	Reload()

	// Dir returns the directory the templates live in.
	Dir() string
}
