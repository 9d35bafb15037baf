// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates with embedded defaults
//
// Helpers:
//   - LoadSamples: YAML evaluation samples
//   - LoadDotEnv: optional .env file for API keys
package file
