// Command createadmin provisions an administrator account directly against
// the database. It is the bootstrap path for deployments where the first
// registered user should not automatically become the administrator.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/VictoryTek/humidor-sub001/internal/server/config"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/repomanager"
)

func main() {
	cfg := config.LoadConfig()

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Enter user name")
	userName, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}
	userName = strings.TrimSpace(userName)

	fmt.Println("Enter email")
	email, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}
	email = strings.TrimSpace(email)

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatal(err)
	}

	if userName == "" || email == "" || len(password) == 0 {
		log.Fatal("user name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	rm := repomanager.NewPostgresRepositoryManager()

	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatal(err)
	}

	user, err := rm.Users(db).Create(ctx, &models.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		IsActive:     true,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("administrator %s created (id %s)\n", user.UserName, user.ID)
}
