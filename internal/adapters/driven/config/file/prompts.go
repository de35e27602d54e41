package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// defaultAnswerPrompt seeds answer.txt and backs Load when the file is
// unreadable. The two %s slots take the context and the question.
const defaultAnswerPrompt = `You are a documentation assistant. Answer the question using only the provided context. If the context does not contain the answer, say that the indexed documents do not cover it instead of guessing.

Context:
%s
Question: %s

Answer:`

// defaults maps prompt names to their embedded templates.
var defaults = map[string]string{
	driven.PromptAnswer: defaultAnswerPrompt,
}

// PromptStore serves prompt templates from user-editable files under a
// prompts directory. The directory and its seed files are created on
// the first Load, not in the constructor, so building a store is free
// of I/O.
type PromptStore struct {
	dir string

	once    sync.Once
	seedErr error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a store rooted at promptDir. An empty
// promptDir means ~/.askdoc/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".askdoc", "prompts")
	}

	return &PromptStore{
		dir:   promptDir,
		cache: map[string]string{},
	}, nil
}

// Load returns the template for name, preferring the on-disk file over
// the embedded default. Results are cached until Reload.
func (s *PromptStore) Load(name string) (string, error) {
	s.once.Do(s.seed)
	if s.seedErr != nil {
		if tmpl, ok := defaults[name]; ok {
			return tmpl, nil
		}
		return "", fmt.Errorf("seed prompt directory: %w", s.seedErr)
	}

	s.mu.RLock()
	tmpl, hit := s.cache[name]
	s.mu.RUnlock()
	if hit {
		return tmpl, nil
	}

	raw, err := os.ReadFile(s.file(name))
	if err != nil {
		if tmpl, ok := defaults[name]; ok {
			return tmpl, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	tmpl = strings.TrimSpace(string(raw))

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		tmpl = cached
	} else {
		s.cache[name] = tmpl
	}
	s.mu.Unlock()

	return tmpl, nil
}

// Reload drops the cache so the next Load rereads the files.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = map[string]string{}
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) file(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed creates the prompt directory, the default template files and a
// README on first use. Existing files are left untouched.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, tmpl := range defaults {
		if err := writeIfAbsent(s.file(name), tmpl); err != nil {
			s.seedErr = fmt.Errorf("seed prompt %q: %w", name, err)
			return
		}
	}

	s.seedErr = writeIfAbsent(filepath.Join(s.dir, "README.md"), promptsReadme)
}

// writeIfAbsent creates path with content unless it already exists.
func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

const promptsReadme = `# Askdoc Prompts

This directory holds the editable templates askdoc uses when answering
questions.

- ` + "`answer.txt`" + ` wraps the retrieved context and your question before
  generation.

Edits take effect on the next command. The answer template uses Go fmt
placeholders: the first ` + "`%s`" + ` receives the retrieved context, the
second ` + "`%s`" + ` receives the question. Keep both, in that order.
`
