//go:build ignore

// generate_hash.go — utility to generate the admin password hash.
// Run: go run scripts/generate_hash.go your_password
//
// Put the result into .env as ADMIN_PASSWORD_HASH.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/generate_hash.go <password>")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Password hash (put into .env as ADMIN_PASSWORD_HASH):")
	fmt.Println(string(hash))
}
