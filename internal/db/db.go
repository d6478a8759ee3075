package db

import (
	"database/sql"
	"log"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) *sql.DB {
	// Timestamps are scanned into time.Time, so the driver has to parse
	// DATETIME columns.
	if !strings.Contains(dbURL, "parseTime") {
		if strings.Contains(dbURL, "?") {
			dbURL += "&parseTime=true"
		} else {
			dbURL += "?parseTime=true"
		}
	}

	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("Database is not responding:", err)
	}

	log.Println("Connected to database")
	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			phone VARCHAR(30) NOT NULL,
			birth_year INT,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_username (username),
			UNIQUE KEY uq_users_email (email),
			UNIQUE KEY uq_users_phone (phone)
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			card_number VARCHAR(30) NOT NULL,
			masked_number VARCHAR(30) NOT NULL,
			card_type VARCHAR(20) NOT NULL DEFAULT 'virtual',
			card_category VARCHAR(20) NOT NULL,
			balance DECIMAL(20,2) NOT NULL DEFAULT 0,
			color_scheme VARCHAR(100),
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_cards_user_id (user_id),
			INDEX idx_cards_card_number (card_number),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS card_requests (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			card_category VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			admin_comment TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			processed_at DATETIME NULL,
			INDEX idx_card_requests_user_id (user_id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INT AUTO_INCREMENT PRIMARY KEY,
			card_id INT NOT NULL,
			user_id INT NOT NULL,
			transaction_type VARCHAR(20) NOT NULL,
			amount DECIMAL(20,2) NOT NULL,
			recipient VARCHAR(100),
			status VARCHAR(20) NOT NULL DEFAULT 'completed',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_transactions_card_id (card_id),
			INDEX idx_transactions_created_at (created_at),
			FOREIGN KEY (card_id) REFERENCES cards(id)
		);`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("Migration failed:", err)
		}
	}
	log.Println("Migrations completed")
}
