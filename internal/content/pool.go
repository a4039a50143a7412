package content

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bilgisen/technews/internal/models"
)

//go:embed pool.yaml
var defaultPool []byte

// StaticPool serves quiz items and jokes from a fixed table.
type StaticPool struct {
	quiz  []models.QuizItem
	jokes []string

	mu  sync.Mutex
	rng *rand.Rand
}

type poolFile struct {
	Quiz  []models.QuizItem `yaml:"quiz"`
	Jokes []string          `yaml:"jokes"`
}

// DefaultPool loads the embedded quiz and joke tables.
func DefaultPool() (*StaticPool, error) {
	return ParsePool(defaultPool, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e37)))
}

// ParsePool decodes a YAML pool and validates every quiz item.
func ParsePool(data []byte, rng *rand.Rand) (*StaticPool, error) {
	var f poolFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode content pool: %w", err)
	}
	if len(f.Quiz) == 0 {
		return nil, fmt.Errorf("content pool has no quiz items")
	}
	if len(f.Jokes) == 0 {
		return nil, fmt.Errorf("content pool has no jokes")
	}
	for i, q := range f.Quiz {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("quiz item %d: %w", i, err)
		}
	}
	return &StaticPool{quiz: f.Quiz, jokes: f.Jokes, rng: rng}, nil
}

// QuizSize returns the number of quiz items in the pool.
func (p *StaticPool) QuizSize() int { return len(p.quiz) }

// Quiz samples min(n, pool size) items without replacement.
func (p *StaticPool) Quiz(n int) []models.QuizItem {
	if n > len(p.quiz) {
		n = len(p.quiz)
	}
	if n <= 0 {
		return nil
	}

	p.mu.Lock()
	perm := p.rng.Perm(len(p.quiz))
	p.mu.Unlock()

	out := make([]models.QuizItem, n)
	for i := 0; i < n; i++ {
		item := p.quiz[perm[i]]
		item.Options = append([]string(nil), item.Options...)
		out[i] = item
	}
	return out
}

// Joke returns one joke chosen uniformly at random.
func (p *StaticPool) Joke() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jokes[p.rng.IntN(len(p.jokes))]
}
