package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads labeling prompts from user-editable files on disk,
// falling back to the built-in templates.
//
// Files are only created on first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	defaults  map[string]string
	initOnce  sync.Once
	initErr   error
}

// placeholders is the number of %s verbs each template must keep.
var placeholders = map[string]int{
	driven.PromptTagSystem: 0,
	driven.PromptLeafTag:   2,
	driven.PromptParentTag: 1,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.vaultag/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
		defaults:  domain.DefaultPrompts(),
	}, nil
}

// Load returns the prompt template for the given name. A file whose
// placeholder count does not match the template is ignored in favour of
// the built-in default, so a bad edit cannot break labeling.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	fallback, known := s.defaults[name]
	if s.initErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	if want, ok := placeholders[name]; ok && strings.Count(prompt, "%s") != want {
		prompt = fallback
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and any missing default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	for name, content := range s.defaults {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# vaultag Prompts

Customisable prompts sent to the labeling model.

## Files

- ` + "`tag_system.txt`" + ` - System prompt sent with every labeling call
- ` + "`leaf_tag.txt`" + ` - Tag for one note: ` + "`%s`" + ` file name, then ` + "`%s`" + ` content
- ` + "`parent_tag.txt`" + ` - Parent tag over child tags: ` + "`%s`" + ` JSON list of child tags

Edits take effect on the next run. A file that loses or adds ` + "`%s`" + `
placeholders is ignored and the built-in prompt is used instead.
`
	return os.WriteFile(path, []byte(content), 0600)
}
