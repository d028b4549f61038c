package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/exam-portal/internal/config"
	"github.com/stemsi/exam-portal/internal/database"
	"github.com/stemsi/exam-portal/internal/logger"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	var (
		role     string
		courseID int64
		roll     string
	)
	flag.StringVar(&role, "role", string(model.RoleTeacher), "Profile role: teacher or student")
	flag.Int64Var(&courseID, "course", 0, "Course ID to enroll the user in (required for students)")
	flag.StringVar(&roll, "roll", "", "Roll number (students only)")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	profile := &model.Profile{Role: model.Role(role), Approved: true}
	if !profile.Role.Valid() {
		log.Fatal().Str("role", role).Msg("Role must be teacher or student")
	}
	if courseID > 0 {
		profile.CourseID = &courseID
	} else if profile.Role == model.RoleStudent {
		log.Fatal().Msg("Students need -course")
	}
	if roll = strings.TrimSpace(roll); roll != "" {
		profile.RollNumber = &roll
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("=== Create New %s ===\n", strings.ToUpper(role[:1])+role[1:])

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		os.Exit(1)
	}

	fmt.Print("Enter Email (optional): ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	user := &model.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := users.Create(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fmt.Printf("Error: username %q is taken\n", username)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("\nSuccess! %s '%s' created with user ID %d, profile ID %d\n", role, user.Username, user.ID, profile.ID)
}
