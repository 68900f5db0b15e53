package speed

const (
	Min  = 50
	Max  = 2000
	Step = 50
)

func Clamp(ms int) int {
	if ms < Min {
		return Min
	} else if ms > Max {
		return Max
	}
	return ms
}

// Faster shortens the delay by one step.
func Faster(ms int) int {
	return Clamp(ms - Step)
}

// Slower lengthens the delay by one step.
func Slower(ms int) int {
	return Clamp(ms + Step)
}

func Hz(ms int) float64 {
	if ms <= 0 {
		return 0
	}
	return 1000.0 / float64(ms)
}

// Store keeps the last delay each pattern was cancelled at. A slot <= 0 is unset.
// Only the engine's thread of control touches it, so there is no locking.
type Store struct {
	slots map[int]int
}

func NewStore() *Store {
	return &Store{slots: make(map[int]int)}
}

func (s *Store) Get(id int, fallback int) int {
	if ms := s.slots[id]; ms > 0 {
		return ms
	}
	return fallback
}
func (s *Store) Set(id int, ms int) {
	s.slots[id] = ms
}
func (s *Store) ResetAll() {
	for id := range s.slots {
		s.slots[id] = 0
	}
}
