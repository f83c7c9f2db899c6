// cmd/seeduser/main.go — creates or updates a local user.
// Usage: go run ./cmd/seeduser -username admin -password secret -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"stockatelier/internal/infra"
	"stockatelier/internal/model"
	"stockatelier/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		username = flag.String("username", "admin", "login name")
		password = flag.String("password", "", "plaintext password (required)")
		role     = flag.String("role", model.RoleAdmin, "viewer, operator or admin")
		dbPath   = flag.String("db", "", "sqlite database path (defaults to DATABASE_PATH or stock.db)")
	)
	flag.Parse()

	if *password == "" {
		log.Fatal("missing -password")
	}
	switch *role {
	case model.RoleViewer, model.RoleOperator, model.RoleAdmin:
	default:
		log.Fatalf("unknown role %q", *role)
	}

	path := *dbPath
	if path == "" {
		path = os.Getenv("DATABASE_PATH")
	}
	if path == "" {
		path = "stock.db"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := infra.NewDatabase(path)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	result := db.Exec(`
		INSERT INTO users (username, password_hash, role, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = excluded.password_hash,
		    role = excluded.role
	`, *username, string(hash), *role)
	if result.Error != nil {
		log.Fatalf("insert error: %v", result.Error)
	}
	fmt.Printf("user %q ready with role %s\n", *username, *role)

	users, err := repository.NewUserRepository(db).List(context.Background())
	if err != nil {
		log.Fatalf("list error: %v", err)
	}
	for _, u := range users {
		fmt.Printf("  %-20s %s\n", u.Username, u.Role)
	}
}
