package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/events"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
)

// incomeService handles income-related business logic.
type incomeService struct {
	db        *gorm.DB
	publisher events.Publisher
	log       *zap.SugaredLogger
}

// NewIncomeService creates a new IncomeServicer. Every successful write is
// announced on publisher.
func NewIncomeService(db *gorm.DB, publisher events.Publisher) IncomeServicer {
	return &incomeService{db: db, publisher: publisher, log: logger.Named("income")}
}

// CreateIncome records an expected income for a month.
func (s *incomeService) CreateIncome(
	userID uint,
	sourceName string,
	expectedAmount decimal.Decimal,
	month, year int,
	dueDate *models.Date,
	description string,
) (*models.IncomeSource, error) {
	if strings.TrimSpace(sourceName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "source_name is required")
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	income := &models.IncomeSource{
		UserID:         userID,
		SourceName:     strings.TrimSpace(sourceName),
		ExpectedAmount: expectedAmount,
		Month:          month,
		Year:           year,
		DueDate:        dueDate,
		Description:    description,
	}
	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	publishPeriods(s.publisher, s.log, incomePeriod(income))
	return income, nil
}

// GetIncomeByID retrieves an income source owned by the user.
func (s *incomeService) GetIncomeByID(userID, incomeID uint) (*models.IncomeSource, error) {
	var income models.IncomeSource
	if err := s.db.Where("income_id = ? AND user_id = ?", incomeID, userID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// GetUserIncomes lists income sources by due date, undated last, then
// source name. Totals cover every matching row.
func (s *incomeService) GetUserIncomes(userID uint, month, year *int, page pagination.PageRequest) (*IncomeList, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if month != nil {
			db = db.Where("month = ?", *month)
		}
		if year != nil {
			db = db.Where("year = ?", *year)
		}
		return db
	}

	var totals struct {
		TotalExpected decimal.Decimal
		TotalReceived decimal.Decimal
	}
	if err := s.db.Model(&models.IncomeSource{}).
		Scopes(scope).
		Select("COALESCE(SUM(expected_amount), 0) AS total_expected, " +
			"COALESCE(SUM(CASE WHEN is_received THEN actual_amount ELSE 0 END), 0) AS total_received").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalItems int64
	if page.IsSet() {
		if err := s.db.Model(&models.IncomeSource{}).Scopes(scope).Count(&totalItems).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	incomes := []models.IncomeSource{}
	if err := s.db.Scopes(scope, pagination.Paginate(page)).
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, source_name ASC, income_id ASC").
		Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &IncomeList{
		Incomes:       incomes,
		TotalExpected: totals.TotalExpected.Round(moneyPlaces),
		TotalReceived: totals.TotalReceived.Round(moneyPlaces),
		Pagination:    pagination.NewPageInfo(page, totalItems),
	}, nil
}

// UpdateIncome applies a partial update and reconciles the affected
// months, both of them when the income moved to another month.
func (s *incomeService) UpdateIncome(userID, incomeID uint, update IncomeUpdate) (*models.IncomeSource, error) {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return nil, err
	}
	oldPeriod := incomePeriod(income)

	updates := make(map[string]interface{})
	if update.SourceName != nil {
		if strings.TrimSpace(*update.SourceName) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "source_name cannot be empty")
		}
		income.SourceName = strings.TrimSpace(*update.SourceName)
		updates["source_name"] = income.SourceName
	}
	if update.ExpectedAmount != nil {
		income.ExpectedAmount = *update.ExpectedAmount
		updates["expected_amount"] = income.ExpectedAmount
	}
	if update.ActualAmount != nil {
		income.ActualAmount = update.ActualAmount
		updates["actual_amount"] = *update.ActualAmount
	}
	if update.IsReceived != nil {
		income.IsReceived = *update.IsReceived
		updates["is_received"] = income.IsReceived
	}
	if update.DueDate != nil {
		income.DueDate = update.DueDate
		updates["due_date"] = *update.DueDate
	}
	if update.ReceiveDate != nil {
		income.ReceiveDate = update.ReceiveDate
		updates["receive_date"] = *update.ReceiveDate
	}
	if update.Month != nil {
		income.Month = *update.Month
		updates["month"] = income.Month
	}
	if update.Year != nil {
		income.Year = *update.Year
		updates["year"] = income.Year
	}
	if update.Description != nil {
		income.Description = *update.Description
		updates["description"] = income.Description
	}

	if err := validatePeriod(income.Month, income.Year); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.IncomeSource{}).
			Where("income_id = ? AND user_id = ?", incomeID, userID).
			Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	publishPeriods(s.publisher, s.log, oldPeriod, incomePeriod(income))
	return s.GetIncomeByID(userID, incomeID)
}

// ReceiveIncome marks an income as received. A nil receiveDate means today.
func (s *incomeService) ReceiveIncome(userID, incomeID uint, actualAmount decimal.Decimal, receiveDate *models.Date) (*models.IncomeSource, error) {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return nil, err
	}

	if receiveDate == nil || receiveDate.IsZero() {
		today := models.Today()
		receiveDate = &today
	}

	if err := s.db.Model(income).Updates(map[string]interface{}{
		"is_received":   true,
		"actual_amount": actualAmount,
		"receive_date":  *receiveDate,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	publishPeriods(s.publisher, s.log, incomePeriod(income))
	return s.GetIncomeByID(userID, incomeID)
}

// DeleteIncome removes an income source and reconciles its month.
func (s *incomeService) DeleteIncome(userID, incomeID uint) error {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(income).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	publishPeriods(s.publisher, s.log, incomePeriod(income))
	return nil
}

// GetIncomeSummary returns the month's expected and received totals.
func (s *incomeService) GetIncomeSummary(userID uint, month, year int) (*IncomeSummary, error) {
	return sumIncome(s.db, userID, month, year)
}

// GetPeriodIncomes returns up to limit incomes of the month, most recent
// transaction date first, undated last.
func (s *incomeService) GetPeriodIncomes(userID uint, month, year, limit int) ([]models.IncomeSource, error) {
	incomes := []models.IncomeSource{}
	if err := s.db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sort.SliceStable(incomes, func(i, j int) bool {
		di, dj := incomes[i].TransactionDate(), incomes[j].TransactionDate()
		if c := compareDatesDesc(di, dj); c != 0 {
			return c < 0
		}
		return incomes[i].IncomeID > incomes[j].IncomeID
	})

	if limit > 0 && len(incomes) > limit {
		incomes = incomes[:limit]
	}
	return incomes, nil
}

func incomePeriod(income *models.IncomeSource) events.PeriodChanged {
	return events.PeriodChanged{UserID: income.UserID, Month: income.Month, Year: income.Year}
}

// compareDatesDesc orders later days first and nil last. It returns a
// negative number when a sorts before b.
func compareDatesDesc(a, b *models.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.After(b.Time):
		return -1
	case a.Before(b.Time):
		return 1
	}
	return 0
}
