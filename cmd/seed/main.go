// Command seed creates a demo user with a realistic month of gig-work
// transactions, for local development and agent prompt iteration.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gigpaisa/internal/models"
	"gigpaisa/internal/repository"
	"gigpaisa/pkg/auth"
	"gigpaisa/pkg/config"
	"gigpaisa/pkg/logger"
	"gigpaisa/pkg/postgres"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@gigpaisa.local"
	demoPassword = "demo1234"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	user, err := ensureDemoUser(ctx, userRepo)
	if err != nil {
		appLogger.Fatal("Failed to create demo user", zap.Error(err))
	}

	count, err := seedTransactions(ctx, txRepo, user.ID)
	if err != nil {
		appLogger.Fatal("Failed to seed transactions", zap.Error(err))
	}

	appLogger.Info("Database seeding completed",
		zap.String("user", demoEmail),
		zap.Int("transactions", count),
	)
}

func ensureDemoUser(ctx context.Context, repo *repository.UserRepository) (*models.User, error) {
	if existing, err := repo.GetByEmail(ctx, demoEmail); err == nil {
		return existing, nil
	}

	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Username:  demoUsername,
		Email:     demoEmail,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

type seedTx struct {
	daysAgo   int
	timeOfDay string
	txType    string
	category  string
	amount    float64
	merchant  string
	payment   string
}

// A month of plausible delivery-rider activity: income clusters on weekends,
// fuel and food expenses through the week, rent at the start of the month.
var seedData = []seedTx{
	{1, "21:30", "income", "Delivery", 1850, "Swiggy", "Bank Transfer"},
	{1, "13:10", "expense", "Food", 120, "", "UPI"},
	{2, "20:45", "income", "Delivery", 2200, "Zomato", "Bank Transfer"},
	{2, "09:15", "expense", "Fuel", 350, "Indian Oil", "UPI"},
	{3, "19:00", "income", "Delivery", 1400, "Swiggy", "Bank Transfer"},
	{4, "21:00", "income", "Delivery", 2600, "Zomato", "Bank Transfer"},
	{4, "14:30", "expense", "Food", 180, "", "Cash"},
	{5, "10:00", "expense", "Phone", 299, "Jio", "UPI"},
	{6, "20:15", "income", "Delivery", 1100, "Swiggy", "Bank Transfer"},
	{7, "18:40", "income", "Freelance", 3500, "Upwork", "Bank Transfer"},
	{8, "09:30", "expense", "Fuel", 400, "HP Petrol", "UPI"},
	{9, "21:10", "income", "Delivery", 1950, "Zomato", "Bank Transfer"},
	{10, "12:00", "expense", "Groceries", 850, "DMart", "Card"},
	{11, "20:30", "income", "Delivery", 2400, "Swiggy", "Bank Transfer"},
	{12, "16:00", "expense", "Maintenance", 600, "", "Cash"},
	{13, "21:00", "income", "Delivery", 1700, "Zomato", "Bank Transfer"},
	{14, "19:20", "income", "Delivery", 2900, "Swiggy", "Bank Transfer"},
	{15, "08:45", "expense", "Fuel", 380, "Indian Oil", "UPI"},
	{16, "20:00", "income", "Delivery", 1250, "Zomato", "Bank Transfer"},
	{18, "13:30", "expense", "Food", 150, "", "UPI"},
	{19, "21:15", "income", "Delivery", 2100, "Swiggy", "Bank Transfer"},
	{20, "11:00", "expense", "Groceries", 720, "Big Bazaar", "Card"},
	{21, "20:50", "income", "Delivery", 2750, "Zomato", "Bank Transfer"},
	{22, "09:00", "expense", "Fuel", 360, "HP Petrol", "UPI"},
	{23, "19:45", "income", "Delivery", 1600, "Swiggy", "Bank Transfer"},
	{25, "17:00", "income", "Freelance", 2800, "Fiverr", "Bank Transfer"},
	{26, "21:30", "income", "Delivery", 1900, "Zomato", "Bank Transfer"},
	{27, "12:30", "expense", "Food", 200, "", "Cash"},
	{28, "10:00", "expense", "Rent", 8000, "", "Bank Transfer"},
	{29, "20:20", "income", "Delivery", 2300, "Swiggy", "Bank Transfer"},
}

func seedTransactions(ctx context.Context, repo *repository.TransactionRepository, userID uuid.UUID) (int, error) {
	now := time.Now()
	for _, s := range seedData {
		amount := s.amount
		tx := &models.Transaction{
			ID:              uuid.New(),
			UserID:          userID,
			Amount:          &amount,
			TransactionType: s.txType,
			Category:        s.category,
			MerchantName:    s.merchant,
			PaymentMethod:   s.payment,
			TransactionDate: now.AddDate(0, 0, -s.daysAgo).Format("2006-01-02"),
			TransactionTime: s.timeOfDay,
			Confidence:      1.0,
			CreatedAt:       now,
		}
		if err := repo.Create(ctx, tx); err != nil {
			return 0, err
		}
	}
	return len(seedData), nil
}
