package memory

import (
	"context"
	"sync"
)

// TxManager сериализует блоки чтение-изменение-запись над ProductRepo.
// Отката нет: изменения, сделанные до ошибки, остаются.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(ctx)
}
