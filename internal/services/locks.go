package services

import "sync"

// BudgetLocks serializes mutations per budget id within this process.
// Entries are dropped once no goroutine holds or waits on them.
type BudgetLocks struct {
	mu    sync.Mutex
	locks map[string]*budgetLock
}

type budgetLock struct {
	sync.Mutex
	refs int
}

func NewBudgetLocks() *BudgetLocks {
	return &BudgetLocks{locks: map[string]*budgetLock{}}
}

// Lock blocks until the budget is free and returns its release func.
func (l *BudgetLocks) Lock(budgetID string) (unlock func()) {
	l.mu.Lock()
	bl, ok := l.locks[budgetID]
	if !ok {
		bl = &budgetLock{}
		l.locks[budgetID] = bl
	}
	bl.refs++
	l.mu.Unlock()

	bl.Lock()
	return func() {
		bl.Unlock()
		l.mu.Lock()
		bl.refs--
		if bl.refs == 0 {
			delete(l.locks, budgetID)
		}
		l.mu.Unlock()
	}
}

func (l *BudgetLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
