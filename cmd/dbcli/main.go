package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/config"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		printMenu()
		fmt.Print("Select option: ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		switch input {
		case "1":
			createDatabase(cfg)
		case "2":
			migrateSchema(cfg)
		case "3":
			migrateFresh(cfg)
		case "4":
			truncateTables(cfg)
		case "5":
			seedData(cfg)
		case "6":
			recountResponses(cfg)
		case "7":
			cleanupExpiredQRCodes(cfg)
		case "8":
			showPlatformStats(cfg)
		case "9":
			resetUserPassword(cfg)
		case "10":
			deleteDatabase(cfg)
		case "0":
			fmt.Println("Bye")
			os.Exit(0)
		default:
			fmt.Println("Invalid option")
		}

		fmt.Println()
		fmt.Print("Press Enter to continue...")
		reader.ReadString('\n')
	}
}

func printMenu() {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("       ULASIS DATABASE CLI MANAGER")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println(" 1. Create database (if missing) + migrate schema")
	fmt.Println(" 2. Migrate schema (existing database)")
	fmt.Println(" 3. Migrate fresh (drop everything + re-migrate)")
	fmt.Println(" 4. Truncate tables")
	fmt.Println(" 5. Seed demo data")
	fmt.Println(" 6. Recount questionnaire response counters")
	fmt.Println(" 7. Deactivate expired QR codes")
	fmt.Println(" 8. Show platform stats")
	fmt.Println(" 9. Reset a user's password")
	fmt.Println("10. Delete database")
	fmt.Println(" 0. Exit")
	fmt.Println()
	fmt.Println("----------------------------------------")
}

func getPostgresConn(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.SSLMode,
	)
	return sql.Open("postgres", connStr)
}

func getDBConn(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode,
	)
	return sql.Open("postgres", connStr)
}

func databaseExists(cfg *config.Config) (bool, error) {
	db, err := getPostgresConn(cfg)
	if err != nil {
		return false, err
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.Database.Name).Scan(&exists)
	return exists, err
}

func createDatabase(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Create Database + Migrate Schema ---")

	exists, err := databaseExists(cfg)
	if err != nil {
		fmt.Printf("Error checking database: %v\n", err)
		return
	}

	if exists {
		fmt.Printf("Database '%s' already exists.\n", cfg.Database.Name)
		fmt.Print("Continue with schema migration? (y/n): ")
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(input)) != "y" {
			fmt.Println("Cancelled.")
			return
		}
	} else {
		db, err := getPostgresConn(cfg)
		if err != nil {
			fmt.Printf("Connection error: %v\n", err)
			return
		}
		defer db.Close()

		_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Database.Name))
		if err != nil {
			fmt.Printf("Error creating database: %v\n", err)
			return
		}
		fmt.Printf("Database '%s' created.\n", cfg.Database.Name)
	}

	migrateSchema(cfg)
}

func migrateSchema(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Migrate Schema ---")

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	fmt.Println("Creating extensions...")
	if err := createExtensions(db); err != nil {
		fmt.Printf("Error creating extensions: %v\n", err)
		return
	}

	fmt.Println("Creating enum types...")
	if err := createEnumTypes(db); err != nil {
		fmt.Printf("Error creating enum types: %v\n", err)
		return
	}

	fmt.Println("Creating tables...")
	if err := createTables(db); err != nil {
		fmt.Printf("Error creating tables: %v\n", err)
		return
	}

	fmt.Println("Creating indexes...")
	if err := createIndexes(db); err != nil {
		fmt.Printf("Error creating indexes: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Schema migration finished.")
}

func migrateFresh(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Migrate Fresh ---")
	fmt.Println("WARNING: all data will be deleted!")
	fmt.Print("Type 'FRESH' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	if strings.TrimSpace(input) != "FRESH" {
		fmt.Println("Cancelled.")
		return
	}

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	fmt.Println("Dropping all objects...")
	if err := dropAllObjects(db); err != nil {
		fmt.Printf("Error dropping objects: %v\n", err)
		return
	}

	fmt.Println("Re-running migration...")
	migrateSchema(cfg)
}

func truncateTables(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Truncate Tables ---")
	fmt.Println("The following data will be DELETED:")
	fmt.Println("- users, questionnaires, questions")
	fmt.Println("- qr_codes, reviews")
	fmt.Println("- refresh_tokens, token_blacklist")
	fmt.Println()
	fmt.Print("Type 'TRUNCATE' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	if strings.TrimSpace(input) != "TRUNCATE" {
		fmt.Println("Cancelled.")
		return
	}

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	tablesToTruncate := []string{
		"token_blacklist",
		"refresh_tokens",
		"reviews",
		"qr_codes",
		"questions",
		"questionnaires",
		"users",
	}

	for _, table := range tablesToTruncate {
		fmt.Printf("Truncating %s...\n", table)
		_, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			fmt.Printf("Error truncating %s: %v\n", table, err)
		}
	}

	fmt.Println()
	fmt.Println("Truncate finished.")
}

func deleteDatabase(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Delete Database ---")
	fmt.Printf("WARNING: database '%s' will be deleted permanently!\n", cfg.Database.Name)
	fmt.Print("Type the database name to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	if strings.TrimSpace(input) != cfg.Database.Name {
		fmt.Println("Database name does not match. Cancelled.")
		return
	}

	db, err := getPostgresConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	// Terminate existing connections
	_, _ = db.Exec(fmt.Sprintf(`
		SELECT pg_terminate_backend(pg_stat_activity.pid)
		FROM pg_stat_activity
		WHERE pg_stat_activity.datname = '%s'
		AND pid <> pg_backend_pid()
	`, cfg.Database.Name))

	_, err = db.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", cfg.Database.Name))
	if err != nil {
		fmt.Printf("Error deleting database: %v\n", err)
		return
	}

	fmt.Printf("Database '%s' deleted.\n", cfg.Database.Name)
}

func dropAllObjects(db *sql.DB) error {
	// Drop tables in order (respecting foreign keys)
	tables := []string{
		"token_blacklist",
		"refresh_tokens",
		"reviews",
		"qr_codes",
		"questions",
		"questionnaires",
		"users",
	}

	for _, table := range tables {
		_, _ = db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table))
	}

	enums := []string{"user_role", "plan_tier", "question_type", "sentiment", "review_status"}
	for _, enum := range enums {
		_, _ = db.Exec(fmt.Sprintf("DROP TYPE IF EXISTS %s CASCADE", enum))
	}

	return nil
}

func createExtensions(db *sql.DB) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
		`CREATE EXTENSION IF NOT EXISTS "pg_trgm"`,
	}

	for _, ext := range extensions {
		if _, err := db.Exec(ext); err != nil {
			return fmt.Errorf("extension error: %v", err)
		}
	}
	return nil
}

func createEnumTypes(db *sql.DB) error {
	enums := []string{
		`DO $$ BEGIN
			CREATE TYPE user_role AS ENUM ('business', 'admin');
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

		`DO $$ BEGIN
			CREATE TYPE plan_tier AS ENUM ('free', 'starter', 'business');
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

		`DO $$ BEGIN
			CREATE TYPE question_type AS ENUM ('rating', 'text', 'multiple_choice', 'yes_no');
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

		`DO $$ BEGIN
			CREATE TYPE sentiment AS ENUM ('positive', 'neutral', 'negative');
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

		`DO $$ BEGIN
			CREATE TYPE review_status AS ENUM ('new', 'in_progress', 'resolved');
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	}

	for _, enum := range enums {
		if _, err := db.Exec(enum); err != nil {
			return fmt.Errorf("enum error: %v", err)
		}
	}
	return nil
}

func createTables(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username VARCHAR(30) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			business_name VARCHAR(100) NOT NULL,
			role user_role NOT NULL DEFAULT 'business',
			plan plan_tier NOT NULL DEFAULT 'free',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			CONSTRAINT users_username_format CHECK (username ~ '^[a-z0-9_]{3,30}$')
		)`,

		`CREATE TABLE IF NOT EXISTS questionnaires (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(200) NOT NULL,
			description TEXT,
			category_mapping JSONB NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_public BOOLEAN NOT NULL DEFAULT TRUE,
			response_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS questions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			questionnaire_id UUID NOT NULL REFERENCES questionnaires(id) ON DELETE CASCADE,
			type question_type NOT NULL,
			prompt VARCHAR(500) NOT NULL,
			position INTEGER NOT NULL,
			required BOOLEAN NOT NULL DEFAULT FALSE,
			options JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS qr_codes (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			questionnaire_id UUID NOT NULL REFERENCES questionnaires(id) ON DELETE CASCADE,
			code VARCHAR(16) NOT NULL UNIQUE,
			label VARCHAR(100) NOT NULL,
			target_url TEXT NOT NULL,
			image_key TEXT,
			logo_url TEXT,
			foreground_color VARCHAR(7) NOT NULL DEFAULT '#000000',
			background_color VARCHAR(7) NOT NULL DEFAULT '#ffffff',
			size INTEGER NOT NULL DEFAULT 512,
			error_correction VARCHAR(1) NOT NULL DEFAULT 'M',
			scan_count BIGINT NOT NULL DEFAULT 0,
			unique_scans BIGINT NOT NULL DEFAULT 0,
			last_scan_at TIMESTAMPTZ,
			expires_at TIMESTAMPTZ,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			CONSTRAINT qr_codes_size_range CHECK (size BETWEEN 128 AND 1024),
			CONSTRAINT qr_codes_ec_level CHECK (error_correction IN ('L', 'M', 'Q', 'H'))
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			questionnaire_id UUID NOT NULL REFERENCES questionnaires(id) ON DELETE CASCADE,
			qr_code_id UUID REFERENCES qr_codes(id) ON DELETE SET NULL,
			rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT,
			sentiment sentiment NOT NULL DEFAULT 'neutral',
			topics TEXT[] NOT NULL DEFAULT '{}',
			status review_status NOT NULL DEFAULT 'new',
			source VARCHAR(50) NOT NULL DEFAULT 'qr',
			respondent_id VARCHAR(64),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash VARCHAR(64) NOT NULL UNIQUE,
			family_id UUID NOT NULL,
			device_info JSONB,
			ip_address INET,
			is_revoked BOOLEAN NOT NULL DEFAULT FALSE,
			revoked_at TIMESTAMPTZ,
			revoked_reason VARCHAR(100),
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_used_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS token_blacklist (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			jti VARCHAR(64) NOT NULL UNIQUE,
			user_id UUID,
			expires_at TIMESTAMPTZ NOT NULL,
			blacklisted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			reason VARCHAR(100)
		)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("table error: %v", err)
		}
	}
	return nil
}

func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_questionnaires_user_id ON questionnaires(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_questionnaires_deleted_at ON questionnaires(deleted_at)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_questionnaire_id ON questions(questionnaire_id)`,
		`CREATE INDEX IF NOT EXISTS idx_qr_codes_questionnaire_id ON qr_codes(questionnaire_id)`,
		`CREATE INDEX IF NOT EXISTS idx_qr_codes_expires_at ON qr_codes(expires_at) WHERE expires_at IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_questionnaire_id ON reviews(questionnaire_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_sentiment ON reviews(sentiment)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_family_id ON refresh_tokens(family_id)`,
		`CREATE INDEX IF NOT EXISTS idx_token_blacklist_jti ON token_blacklist(jti)`,
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("index error: %v", err)
		}
	}
	return nil
}

func seedData(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Seed Demo Data ---")

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		return
	}

	fmt.Println("Creating admin user (admin / password123)...")
	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, business_name, role, plan)
		VALUES ('admin', 'admin@ulasis.local', $1, 'Ulasis Ops', 'admin', 'business')
		ON CONFLICT (username) DO NOTHING
	`, string(hash))
	if err != nil {
		fmt.Printf("Error seeding admin: %v\n", err)
		return
	}

	businesses := []struct {
		username string
		name     string
		plan     string
	}{
		{"warung_sari", "Warung Sari", "free"},
		{"kopi_kita", "Kopi Kita", "starter"},
		{"resto_nusantara", "Resto Nusantara", "business"},
	}

	comments := []string{
		"Great service, the staff was very friendly",
		"Slow delivery and the food was cold",
		"Excellent quality, will come again",
		"Too expensive for that portion",
		"Clean place, fast service, love it",
		"",
	}

	for _, b := range businesses {
		fmt.Printf("Creating business %s (%s plan)...\n", b.username, b.plan)
		var userID string
		err := db.QueryRow(`
			INSERT INTO users (username, email, password_hash, business_name, role, plan)
			VALUES ($1, $2, $3, $4, 'business', $5)
			ON CONFLICT (username) DO UPDATE SET business_name = EXCLUDED.business_name
			RETURNING id
		`, b.username, b.username+"@ulasis.local", string(hash), b.name, b.plan).Scan(&userID)
		if err != nil {
			fmt.Printf("Error seeding user %s: %v\n", b.username, err)
			continue
		}

		var questionnaireID string
		err = db.QueryRow(`
			INSERT INTO questionnaires (user_id, title, description, category_mapping)
			VALUES ($1, $2, 'How was your visit today?', '{"service": ["staff", "waiter", "service"], "food": ["taste", "portion", "menu"]}')
			RETURNING id
		`, userID, b.name+" Feedback").Scan(&questionnaireID)
		if err != nil {
			fmt.Printf("Error seeding questionnaire: %v\n", err)
			continue
		}

		code := fmt.Sprintf("demo%06d", rand.Intn(1000000))
		var qrID string
		err = db.QueryRow(`
			INSERT INTO qr_codes (questionnaire_id, code, label, target_url)
			VALUES ($1, $2, 'Front door', $3)
			RETURNING id
		`, questionnaireID, code, cfg.QR.ScanBaseURL+"/q/"+code).Scan(&qrID)
		if err != nil {
			fmt.Printf("Error seeding QR code: %v\n", err)
			continue
		}

		reviewCount := 5 + rand.Intn(20)
		for i := 0; i < reviewCount; i++ {
			comment := comments[rand.Intn(len(comments))]
			rating := 1 + rand.Intn(5)
			sentiment := "neutral"
			if rating >= 4 {
				sentiment = "positive"
			} else if rating <= 2 {
				sentiment = "negative"
			}
			createdAt := time.Now().AddDate(0, 0, -rand.Intn(30))

			_, err := db.Exec(`
				INSERT INTO reviews (questionnaire_id, qr_code_id, rating, comment, sentiment, created_at)
				VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
			`, questionnaireID, qrID, rating, comment, sentiment, createdAt)
			if err != nil {
				fmt.Printf("Error seeding review: %v\n", err)
			}
		}
		fmt.Printf("  seeded %d reviews\n", reviewCount)
	}

	fmt.Println()
	fmt.Println("Syncing counters...")
	syncCounters(db)
	fmt.Println("Seed finished.")
}

// recountResponses rebuilds the denormalized response_count column from the
// reviews table. Useful when the counter has drifted.
func recountResponses(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Recount Response Counters ---")

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	syncCounters(db)
}

func syncCounters(db *sql.DB) {
	res, err := db.Exec(`
		UPDATE questionnaires q
		SET response_count = sub.cnt
		FROM (
			SELECT questionnaire_id, COUNT(*) AS cnt
			FROM reviews
			GROUP BY questionnaire_id
		) sub
		WHERE q.id = sub.questionnaire_id
		AND q.response_count <> sub.cnt
	`)
	if err != nil {
		fmt.Printf("Error recounting: %v\n", err)
		return
	}
	updated, _ := res.RowsAffected()
	fmt.Printf("Updated %d questionnaire counters.\n", updated)
}

func cleanupExpiredQRCodes(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Deactivate Expired QR Codes ---")

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	res, err := db.Exec(`
		UPDATE qr_codes
		SET is_active = FALSE, updated_at = NOW()
		WHERE is_active = TRUE
		AND deleted_at IS NULL
		AND expires_at IS NOT NULL
		AND expires_at < NOW()
	`)
	if err != nil {
		fmt.Printf("Error cleaning up: %v\n", err)
		return
	}
	deactivated, _ := res.RowsAffected()
	fmt.Printf("Deactivated %d expired QR codes.\n", deactivated)
}

func showPlatformStats(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Platform Stats ---")

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	queries := []struct {
		label string
		query string
	}{
		{"Users", "SELECT COUNT(*) FROM users WHERE deleted_at IS NULL"},
		{"Questionnaires", "SELECT COUNT(*) FROM questionnaires WHERE deleted_at IS NULL"},
		{"QR codes", "SELECT COUNT(*) FROM qr_codes WHERE deleted_at IS NULL"},
		{"Total scans", "SELECT COALESCE(SUM(scan_count), 0) FROM qr_codes WHERE deleted_at IS NULL"},
		{"Reviews", "SELECT COUNT(*) FROM reviews"},
	}

	for _, q := range queries {
		var n int64
		if err := db.QueryRow(q.query).Scan(&n); err != nil {
			fmt.Printf("%-16s error: %v\n", q.label+":", err)
			continue
		}
		fmt.Printf("%-16s %d\n", q.label+":", n)
	}

	fmt.Println()
	fmt.Println("Reviews by sentiment:")
	rows, err := db.Query("SELECT sentiment, COUNT(*) FROM reviews GROUP BY sentiment ORDER BY sentiment")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var sentiment string
		var n int64
		if err := rows.Scan(&sentiment, &n); err != nil {
			continue
		}
		fmt.Printf("  %-10s %d\n", sentiment, n)
	}
}

func resetUserPassword(cfg *config.Config) {
	fmt.Println()
	fmt.Println("--- Reset User Password ---")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Cancelled.")
		return
	}

	fmt.Print("New password (min 8 chars): ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)
	if len(password) < 8 {
		fmt.Println("Password too short. Cancelled.")
		return
	}

	db, err := getDBConn(cfg)
	if err != nil {
		fmt.Printf("Connection error: %v\n", err)
		return
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		return
	}

	res, err := db.Exec(`
		UPDATE users SET password_hash = $1, updated_at = NOW()
		WHERE username = $2 AND deleted_at IS NULL
	`, string(hash), username)
	if err != nil {
		fmt.Printf("Error updating password: %v\n", err)
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		fmt.Printf("User '%s' not found.\n", username)
		return
	}

	// Kill every active session for the account
	_, _ = db.Exec(`
		UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW(), revoked_reason = 'password_reset'
		FROM users u
		WHERE refresh_tokens.user_id = u.id AND u.username = $1
	`, username)

	fmt.Printf("Password for '%s' reset and sessions revoked.\n", username)
}
