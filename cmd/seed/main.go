package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/radityaputra/tautan/config"
	"github.com/radityaputra/tautan/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword("password123")
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	seedUser := func(username, email, fullName string) string {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (username, email, password_hash, full_name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
			RETURNING id
		`, username, email, hash, fullName).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", username, err)
		}
		fmt.Printf("seeded user: id=%s username=%s email=%s\n", id, username, email)
		return id
	}

	alice := seedUser("alice", "alice@example.com", "Alice Tan")
	bob := seedUser("bob", "bob@example.com", "Bob Wijaya")

	if _, err := db.Exec(`
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, alice, bob); err != nil {
		log.Fatalf("failed to seed follow: %v", err)
	}
	fmt.Println("alice follows bob")

	var postID string
	if err := db.QueryRow(`
		INSERT INTO posts (user_id, text)
		VALUES ($1, $2)
		RETURNING id
	`, bob, "hello from the seed script").Scan(&postID); err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}
	fmt.Printf("seeded post: id=%s (bob)\n", postID)
}
