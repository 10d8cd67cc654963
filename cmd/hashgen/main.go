// Command hashgen prints bcrypt hashes for seeding credentials by hand.
//
//	hashgen [-cost N] [-email addr -role admin] <password>...
//
// With -email it prints a ready-to-run INSERT for the credentials table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	email := flag.String("email", "", "emit an INSERT for this credential email")
	roleName := flag.String("role", string(models.RoleAdmin), "credential role used with -email")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: hashgen [-cost N] [-email addr -role admin|hr|employee] <password>...")
		os.Exit(2)
	}
	role, ok := models.ParseRole(*roleName)
	if !ok {
		log.Fatalf("unknown role %q", *roleName)
	}
	if *email != "" && flag.NArg() != 1 {
		log.Fatal("-email takes exactly one password")
	}

	for _, password := range flag.Args() {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		if *email == "" {
			fmt.Println(string(hash))
			continue
		}
		fmt.Printf("INSERT INTO credentials (email, password_hash, role, active, created_at, updated_at) "+
			"VALUES ('%s', '%s', '%s', 1, UTC_TIMESTAMP(), UTC_TIMESTAMP());\n",
			strings.ReplaceAll(*email, "'", "''"), hash, role)
	}
}
