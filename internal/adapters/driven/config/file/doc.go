// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration with environment overrides
//   - PromptStore: User-editable labeling prompt templates
package file
