// Package fallback serves pre-authored questions when live generation
// is rate-limited or failing.
package fallback

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elementsoftruth/trivia/internal/questiongen"
)

// Bank maps a "Category_Difficulty" key to its stored questions.
// Immutable after load.
type Bank map[string][]questiongen.Question

// Catalog loads a static question bank from a JSON file and samples
// non-overlapping subsets from it. The bank loads once, on first use;
// a missing or corrupt file degrades to an empty bank rather than an
// error, since fallback is itself the degraded path.
type Catalog struct {
	path   string
	logger *zap.Logger

	once sync.Once
	bank Bank
}

// NewCatalog creates a Catalog backed by the JSON file at path.
func NewCatalog(path string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{path: path, logger: logger}
}

// Key builds the bank key for a category/difficulty pair.
func Key(category, difficulty string) string {
	return fmt.Sprintf("%s_%s", category, difficulty)
}

// Sample returns up to count questions for the given category and
// difficulty, excluding any whose ID is in excludeIDs. When the exact
// key is absent it samples from a random key instead, so a non-empty
// bank always yields something. Returns nil when nothing usable exists.
func (c *Catalog) Sample(category, difficulty string, count int, excludeIDs []string) questiongen.Batch {
	bank := c.load()
	if len(bank) == 0 || count <= 0 {
		return nil
	}

	pool, ok := bank[Key(category, difficulty)]
	if !ok || len(pool) == 0 {
		pool = bank[randomKey(bank)]
	}

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	candidates := make(questiongen.Batch, 0, len(pool))
	for _, q := range pool {
		if !excluded[q.ID] {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}

// Empty reports whether the bank has no questions at all.
func (c *Catalog) Empty() bool {
	return len(c.load()) == 0
}

// load reads and caches the bank file. Races on first use are prevented
// by sync.Once; afterwards the bank is read-only.
func (c *Catalog) load() Bank {
	c.once.Do(func() {
		c.bank = readBank(c.path, c.logger)
	})
	return c.bank
}

func readBank(path string, logger *zap.Logger) Bank {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("fallback bank unavailable, serving empty bank",
			zap.String("path", path), zap.Error(err))
		return Bank{}
	}

	var bank Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		logger.Warn("fallback bank corrupt, serving empty bank",
			zap.String("path", path), zap.Error(err))
		return Bank{}
	}

	// Every stored question needs an ID for client-side exclusion.
	total := 0
	for key, questions := range bank {
		for i := range questions {
			if questions[i].ID == "" {
				questions[i].ID = uuid.NewString()
			}
		}
		total += len(questions)
		// Drop empty keys so random key selection always yields questions.
		if len(questions) == 0 {
			delete(bank, key)
		}
	}

	logger.Info("fallback bank loaded",
		zap.String("path", path),
		zap.Int("keys", len(bank)),
		zap.Int("questions", total))
	return bank
}

func randomKey(bank Bank) string {
	keys := make([]string, 0, len(bank))
	for k := range bank {
		keys = append(keys, k)
	}
	return keys[rand.IntN(len(keys))]
}
