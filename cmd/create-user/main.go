// CLI tool to create an account with a bcrypt-hashed password and print its
// access token. Registration (body profile and goal) is completed later
// through POST /v1/me/complete-registration.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	conn, err := pgx.Connect(context.Background(), os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label + ": ")
		v, _ := reader.ReadString('\n')
		return strings.TrimSpace(v)
	}

	firstName := prompt("First name")
	lastName := prompt("Last name")
	email := strings.ToLower(prompt("Email"))
	password := prompt("Password")

	if firstName == "" || lastName == "" {
		fmt.Fprintln(os.Stderr, "First and last name are required")
		os.Exit(1)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid email: %v\n", err)
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "Password must be at least 8 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	userID := uuid.NewString()
	authToken := uuid.NewString()

	_, err = conn.Exec(context.Background(),
		`INSERT INTO users (id, first_name, last_name, email, password, auth_token)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, firstName, lastName, email, string(hash), authToken,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %s\n", userID)
	fmt.Printf("  Name:       %s %s\n", firstName, lastName)
	fmt.Printf("  Auth Token: %s\n", authToken)
}
