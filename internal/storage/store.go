package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/tomz197/lander/internal/config"
)

// Keys under which state is persisted.
const (
	KeyHighScores  = "landerImpossibleHighScores"
	KeyCompleted   = "landerImpossibleCompleted"
	KeyPlanetIndex = "landerImpossiblePlanetIndex"
)

// Progress is the campaign state.
type Progress struct {
	Completed   bool
	PlanetIndex int
}

// HighScore is one leaderboard row.
type HighScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Store reads and writes game state over a KV. Reads never fail: a missing
// or corrupt value is logged and replaced by its default.
//
// Views made with ForPlayer share the leaderboard and keep their own progress.
type Store struct {
	kv     KV
	logger *log.Logger
	scope  string
	mu     *sync.Mutex // Guards the leaderboard read-modify-write
}

// NewStore wraps kv. A nil logger uses the default logger.
func NewStore(kv KV, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{kv: kv, logger: logger, mu: &sync.Mutex{}}
}

// ForPlayer returns a view whose progress is kept under the player's full
// name. Leaderboard rows still use the short tag from NormalizeName.
func (s *Store) ForPlayer(name string) *Store {
	view := *s
	view.scope = progressScope(name)
	return &view
}

// progressScope is the key prefix for a player's progress.
func progressScope(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = config.DefaultPlayerName
	}
	return "player:" + name + ":"
}

// LoadProgress returns the saved campaign state or the zero Progress.
func (s *Store) LoadProgress() Progress {
	var p Progress
	completed, _, err := s.kv.Get(s.scope + KeyCompleted)
	if err != nil {
		s.logger.Warn("loading progress", "err", err)
		return p
	}
	p.Completed = completed == "true"

	raw, ok, err := s.kv.Get(s.scope + KeyPlanetIndex)
	if err != nil {
		s.logger.Warn("loading planet index", "err", err)
		return p
	}
	if !ok {
		return p
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		s.logger.Warn("ignoring bad planet index", "value", raw)
		return p
	}
	p.PlanetIndex = idx
	return p
}

// SaveProgress writes the campaign state.
func (s *Store) SaveProgress(p Progress) error {
	if err := s.kv.Set(s.scope+KeyCompleted, strconv.FormatBool(p.Completed)); err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}
	if err := s.kv.Set(s.scope+KeyPlanetIndex, strconv.Itoa(p.PlanetIndex)); err != nil {
		return fmt.Errorf("saving planet index: %w", err)
	}
	return nil
}

// LoadHighScores returns the leaderboard, best first.
func (s *Store) LoadHighScores() []HighScore {
	raw, ok, err := s.kv.Get(KeyHighScores)
	if err != nil {
		s.logger.Warn("loading high scores", "err", err)
		return []HighScore{}
	}
	if !ok || raw == "" {
		return []HighScore{}
	}
	var scores []HighScore
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		s.logger.Warn("ignoring corrupt high scores", "err", err)
		return []HighScore{}
	}
	return normalize(scores)
}

// SaveHighScore adds h if it makes the table and reports whether it did.
func (s *Store) SaveHighScore(h HighScore) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores := s.LoadHighScores()
	if !Qualifies(scores, h.Score) {
		return false, nil
	}
	h.Name = NormalizeName(h.Name)
	scores = normalize(append(scores, h))

	data, err := json.Marshal(scores)
	if err != nil {
		return false, fmt.Errorf("encoding high scores: %w", err)
	}
	if err := s.kv.Set(KeyHighScores, string(data)); err != nil {
		return false, fmt.Errorf("saving high scores: %w", err)
	}
	return true, nil
}

// Qualifies reports whether score earns a place on the table.
func Qualifies(scores []HighScore, score int) bool {
	if score <= 0 {
		return false
	}
	if len(scores) < config.MaxHighScores {
		return true
	}
	return score > scores[len(scores)-1].Score
}

// NormalizeName turns a player name into a leaderboard tag.
func NormalizeName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return config.DefaultPlayerName
	}
	if utf8.RuneCountInString(name) > config.HighScoreNameLen {
		name = string([]rune(name)[:config.HighScoreNameLen])
	}
	return name
}

func normalize(scores []HighScore) []HighScore {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > config.MaxHighScores {
		scores = scores[:config.MaxHighScores]
	}
	return scores
}
