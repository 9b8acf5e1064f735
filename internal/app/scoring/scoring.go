package scoring

import (
	"math/rand"
	"sync"
	"time"
)

// Границы скорингового балла
const (
	MinScore = 700
	MaxScore = 900
)

// Generator выдаёт псевдослучайный скоринговый балл в [700, 900].
// Реальной скоринговой модели нет - балл используется как
// бизнес-сигнал для дилера и для отображения клиенту.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed нужен тестам для воспроизводимых значений
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Score всегда успешен, границы включительные
func (g *Generator) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return MinScore + g.rnd.Intn(MaxScore-MinScore+1)
}
