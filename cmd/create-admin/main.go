package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/database"
	"github.com/Osuolale-Olalekan/CBT-app/internal/logger"
	"github.com/Osuolale-Olalekan/CBT-app/internal/model"
	"github.com/Osuolale-Olalekan/CBT-app/internal/repository"
)

// Creates an admin account from the terminal. The password is read without
// echo.
func main() {
	var (
		name  = flag.String("name", "", "admin display name")
		email = flag.String("email", "", "admin email address")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	reader := bufio.NewReader(os.Stdin)
	if *name == "" {
		fmt.Print("Name: ")
		line, _ := reader.ReadString('\n')
		*name = strings.TrimSpace(line)
	}
	if *email == "" {
		fmt.Print("Email: ")
		line, _ := reader.ReadString('\n')
		*email = strings.TrimSpace(line)
	}
	if *name == "" || *email == "" {
		log.Fatal().Msg("name and email are required")
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatal().Err(err).Msg("read password")
	}
	if len(password) < 6 {
		log.Fatal().Msg("password must be at least 6 characters")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatal().Err(err).Msg("read password confirmation")
	}
	if string(password) != string(confirm) {
		log.Fatal().Msg("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	admin := &model.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("create admin failed")
	}

	log.Info().Str("user_id", admin.ID.String()).Str("email", admin.Email).Msg("admin created")
}
