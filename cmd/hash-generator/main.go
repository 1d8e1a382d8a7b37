// Command hash-generator prints bcrypt hashes for the given passwords, for
// seeding users directly in the database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskr-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt work factor")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost N] password...")
		os.Exit(2)
	}

	if err := run(os.Stdout, auth.NewBcryptHasher(*cost), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, hasher auth.PasswordHasher, passwords []string) error {
	for _, password := range passwords {
		if len(password) > 72 {
			return fmt.Errorf("password of %d bytes exceeds bcrypt's 72 byte limit", len(password))
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, hash); err != nil {
			return err
		}
	}
	return nil
}
