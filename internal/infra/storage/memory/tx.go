package memory

import "context"

type txKey struct{}

// tx журнал отката и удерживаемые блокировки мастеров одной транзакции
type tx struct {
	store *Store
	undo  []func()
	held  map[int64]chan struct{}
}

func txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

// onRollback регистрирует откат изменения, если вызов идет внутри транзакции
func onRollback(ctx context.Context, fn func()) {
	if t := txFrom(ctx); t != nil {
		t.undo = append(t.undo, fn)
	}
}

func (t *tx) rollback() {
	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()
	t.undo = nil
}

func (t *tx) release() {
	for _, ch := range t.held {
		<-ch
	}
	t.held = nil
}

// TxManager транзакции поверх Store.
// Изменения применяются сразу и откатываются по журналу при ошибке,
// блокировки мастеров держатся до конца транзакции.
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций для хранилища
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции.
// Конфликтов сериализации нет: запись мастера сериализуется через LockStaff.
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	t := &tx{store: m.store, held: make(map[int64]chan struct{})}
	defer t.release()

	defer func() {
		if p := recover(); p != nil {
			t.rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		t.rollback()
		return err
	}

	return nil
}
