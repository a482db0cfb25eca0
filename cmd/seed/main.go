package main

import (
	"fmt"

	"github.com/agromate/agromate-api/internal/config"
	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/logger"
	"github.com/agromate/agromate-api/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Demo accounts all share this password.
const demoPassword = "Agromate#2026"

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}

	users := []models.User{
		{
			Email:     "farmer@agromate.demo",
			FirstName: "Marie",
			LastName:  "Ngono",
			Role:      constants.RoleFarmer,
			Phone:     "+237650000001",
			Location:  "Bafoussam, West Region",
		},
		{
			Email:     "farmer2@agromate.demo",
			FirstName: "Paul",
			LastName:  "Etoga",
			Role:      constants.RoleFarmer,
			Phone:     "+237650000002",
			Location:  "Buea, Southwest Region",
		},
		{
			Email:     "buyer@agromate.demo",
			FirstName: "Clarisse",
			LastName:  "Mbarga",
			Role:      constants.RoleBuyer,
			Phone:     "+237650000003",
			Location:  "Douala, Littoral Region",
		},
		{
			Email:     "delivery@agromate.demo",
			FirstName: "Samuel",
			LastName:  "Fon",
			Role:      constants.RoleDelivery,
			Phone:     "+237650000004",
			Location:  "Yaoundé, Centre Region",
		},
	}

	userIDs := map[string]uint{}
	userNames := map[string]string{}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err != nil {
			u.PasswordHash = string(hash)
			u.Status = constants.UserStatusActive
			if err := models.DB.Create(&u).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", u.Email, err)
				continue
			}
			stdLog.Printf("Created user: %s (%s)", u.Email, u.Role)
			userIDs[u.Email] = u.ID
			userNames[u.Email] = u.FullName()
		} else {
			stdLog.Printf("User already exists: %s", u.Email)
			userIDs[u.Email] = existing.ID
			userNames[u.Email] = existing.FullName()
		}
	}

	farmerID := userIDs["farmer@agromate.demo"]
	farmerName := userNames["farmer@agromate.demo"]
	farmer2ID := userIDs["farmer2@agromate.demo"]
	farmer2Name := userNames["farmer2@agromate.demo"]
	if farmerID == 0 || farmer2ID == 0 {
		stdLog.Fatalf("Seed aborted: demo farmers missing")
	}

	products := []models.Product{
		{
			FarmerID:    farmerID,
			FarmerName:  farmerName,
			Name:        "Fresh Tomatoes",
			Description: "Vine-ripened tomatoes picked this week. Sold per kilogram.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(800)),
			Category:    constants.CategoryVegetables,
			Subcategory: "tomatoes",
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1592924357228-91a4daadcfea?w=800",
			},
			Stock:       40,
			IsAvailable: true,
			Location:    "Bafoussam, West Region",
		},
		{
			FarmerID:    farmerID,
			FarmerName:  farmerName,
			Name:        "Sweet Plantains",
			Description: "Ripe plantains, ideal for frying. Sold per bunch.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(2500)),
			OriginalPrice: func() *models.Money {
				m := models.NewMoneyFromDecimal(decimal.NewFromInt(3000))
				return &m
			}(),
			Category: constants.CategoryFruits,
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1603052875302-d376b7c0638a?w=800",
			},
			Stock:       15,
			IsAvailable: true,
			Location:    "Bafoussam, West Region",
		},
		{
			FarmerID:    farmerID,
			FarmerName:  farmerName,
			Name:        "White Maize",
			Description: "Dried white maize, cleaned and bagged. 5 kg bag.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(3500)),
			Category:    constants.CategoryGrains,
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1551754655-cd27e38d2076?w=800",
			},
			Stock:       24,
			IsAvailable: true,
			Location:    "Bafoussam, West Region",
		},
		{
			FarmerID:    farmer2ID,
			FarmerName:  farmer2Name,
			Name:        "Fresh Basil",
			Description: "Aromatic basil bunches, cut to order.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
			Category:    constants.CategoryHerbs,
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1618164435735-413d3b066c9a?w=800",
			},
			Stock:       30,
			IsAvailable: true,
			Location:    "Buea, Southwest Region",
		},
		{
			FarmerID:    farmer2ID,
			FarmerName:  farmer2Name,
			Name:        "Raw Cow Milk",
			Description: "Fresh raw milk, bottled daily. 1 litre.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
			Category:    constants.CategoryDairy,
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1550583724-b2692b85b150?w=800",
			},
			Stock:       0,
			IsAvailable: false,
			Location:    "Buea, Southwest Region",
		},
		{
			FarmerID:    farmer2ID,
			FarmerName:  farmer2Name,
			Name:        "Honey Jar",
			Description: "Wild forest honey, 500 g glass jar.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(4000)),
			Category:    constants.CategoryOthers,
			Images: models.StringArray{
				"https://images.unsplash.com/photo-1587049352846-4a222e784d38?w=800",
			},
			Stock:       12,
			IsAvailable: true,
			Location:    "Buea, Southwest Region",
		},
	}

	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("farmer_id = ? AND name = ?", prod.FarmerID, prod.Name).First(&existing).Error; err != nil {
			prod.Currency = constants.Currency
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Name)
			}
		} else {
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.OriginalPrice = prod.OriginalPrice
			existing.Category = prod.Category
			existing.Subcategory = prod.Subcategory
			existing.Images = prod.Images
			existing.Stock = prod.Stock
			existing.IsAvailable = prod.IsAvailable
			existing.Location = prod.Location
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Name)
			}
		}
	}

	fmt.Println("\n✅ Demo data ready!")
	fmt.Println("Summary:")
	fmt.Println("- 4 users (2 farmers, 1 buyer, 1 delivery person)")
	fmt.Println("- 6 products across all categories")
	fmt.Printf("- Shared demo password: %s\n", demoPassword)
}
