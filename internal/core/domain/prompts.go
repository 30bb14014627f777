package domain

// Built-in labeling prompt templates, keyed by prompt name.
const (
	DefaultTagSystemPrompt = `You are a note-tagging assistant for a personal knowledge vault. ` +
		`Answer with a single tag and nothing else: no explanation, no quotes, no leading '#'.`

	DefaultLeafTagPrompt = `Based on the following note, generate one short core English tag.
file_name: %s
content: %s`

	DefaultParentTagPrompt = `Based on these child tags or topics, generate one concise parent tag that generalises them. ` +
		`Do not join the child tags with "/" or any other separator; name the broader field they belong to and keep it short. ` +
		`For example "CNN" and "LSTM" generalise to "NeuralNetwork". ` +
		`Return only the tag itself, such as NeuralNetwork, with no prefix.
Child tags: %s`
)

// DefaultPrompts returns the built-in template for each prompt name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		"tag_system": DefaultTagSystemPrompt,
		"leaf_tag":   DefaultLeafTagPrompt,
		"parent_tag": DefaultParentTagPrompt,
	}
}
