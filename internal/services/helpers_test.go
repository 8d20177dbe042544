package services

import (
	"gorm.io/gorm"

	"budgettracker/internal/events"
)

// recordingPublisher captures published events and optionally fails.
type recordingPublisher struct {
	events []events.PeriodChanged
	err    error
}

func (p *recordingPublisher) Publish(evt events.PeriodChanged) error {
	p.events = append(p.events, evt)
	return p.err
}

// ledgers wires the expense and income services to a savings reconciler
// over an in-process bus, the way the API does.
type ledgers struct {
	expenses ExpenseServicer
	incomes  IncomeServicer
	savings  SavingsServicer
	budgets  BudgetServicer
}

func newLedgers(db *gorm.DB) *ledgers {
	bus := events.NewBus()
	savings := NewSavingsService(db, nil)
	bus.Subscribe(savings.HandlePeriodChanged)
	return &ledgers{
		expenses: NewExpenseService(db, bus),
		incomes:  NewIncomeService(db, bus),
		savings:  savings,
		budgets:  NewBudgetService(db),
	}
}
