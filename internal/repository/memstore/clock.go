// Package memstore — хранилище в памяти процесса с теми же контрактами,
// что у Postgres и Mongo реализаций. Используется для локального запуска
// без базы данных и в тестах.
package memstore

import (
	"sync"
	"time"
)

// clock выдаёт строго возрастающие отметки времени, чтобы порядок
// created_at совпадал с порядком вставки.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
