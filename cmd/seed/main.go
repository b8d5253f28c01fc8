package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/johnquangdev/loan-agent-trainer/internal/domain/entities"
	"github.com/johnquangdev/loan-agent-trainer/internal/infrastructure/database"
	"github.com/johnquangdev/loan-agent-trainer/pkg/config"
	pkgjwt "github.com/johnquangdev/loan-agent-trainer/pkg/jwt"
)

const testDomain = "@test.local"

func main() {
	password := flag.String("password", "password123", "password assigned to every test user")
	flag.Parse()

	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	jwtManager := pkgjwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	testUsers := []struct {
		Username   string
		Role       entities.UserRole
		Difficulty entities.Difficulty
	}{
		{Username: "alice", Role: entities.RoleAgent, Difficulty: entities.DifficultyEasy},
		{Username: "bob", Role: entities.RoleAgent, Difficulty: entities.DifficultyHard},
		{Username: "charlie", Role: entities.RoleAgent, Difficulty: entities.DifficultyEasy},
		{Username: "admin", Role: entities.RoleAdmin, Difficulty: entities.DifficultyHard},
	}

	log.Println("🗑️  Cleaning up existing test users...")
	db.Where("user_id IN (SELECT id FROM users WHERE email LIKE ?)", "%"+testDomain).Delete(&entities.Conversation{})
	db.Where("user_id IN (SELECT id FROM users WHERE email LIKE ?)", "%"+testDomain).Delete(&entities.DailyScore{})
	db.Where("email LIKE ?", "%"+testDomain).Delete(&entities.User{})

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	log.Println("🔑 Creating test users and tokens...")

	for i, tu := range testUsers {
		user := entities.NewUser(tu.Username, tu.Username+testDomain, string(hash))
		user.Role = tu.Role
		user.Difficulty = tu.Difficulty

		if err := db.Create(user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", user.Email, err)
			continue
		}

		accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.Username, string(user.Role))
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", user.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d: %s\n", i+1, user.Username)
		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("Email:        %s\n", user.Email)
		fmt.Printf("User ID:      %s\n", user.ID)
		fmt.Printf("Role:         %s\n", user.Role)
		fmt.Printf("Difficulty:   %s\n", user.Difficulty)
		fmt.Printf("\n📋 Access Token (expires in %v):\n", cfg.JWT.AccessExpiry)
		fmt.Printf("%s\n", accessToken)
		fmt.Printf("───────────────────────────────────────────────────────────────\n\n")
	}

	log.Println("✅ All test users created successfully!")
	log.Printf("💡 Log in with any test email and password %q", *password)
	log.Printf("🧹 To clean up test users, run: DELETE FROM users WHERE email LIKE '%%%s'", testDomain)
}
