package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"lexforge/config"
	"lexforge/db"
	"lexforge/models"
	"lexforge/services"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.AuditLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	// Get user details
	fmt.Println("=== Create New User ===")
	fmt.Println()

	fmt.Print("Display name (optional): ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println() // New line after password input

	if email == "" || password == "" {
		log.Fatal("Email and password are required")
	}

	user, err := services.RegisterUser(context.Background(), db.DB, services.SignUpInput{
		DisplayName: name,
		Email:       email,
		Password:    password,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	if user.DisplayName != "" {
		fmt.Printf("  Name: %s\n", user.DisplayName)
	}
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Println()
	fmt.Printf("The user can now log in at %s/login\n", cfg.AppURL)
}
