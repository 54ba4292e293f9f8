package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/credstore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   store backend: memory, file, postgres, s3
//	-f string   file store directory
//	-d string   PostgreSQL DSN
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-a string   digest algorithm: sha1, sha256, sha512
//	-i int      iteration count for new enrollments
//	-l int      salt length, bytes
//	-v int      verifier length, bytes
//	-m int      maximum accepted password length, bytes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-s", "-f", "-d", "-u", "-p", "-b", "-g", "-e", "-a", "-i", "-l", "-v", "-m",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "store backend (memory|file|postgres|s3)")
	fs.StringVar(&config.FileStoreDir, "f", config.FileStoreDir, "file store directory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.Digest, "a", config.Digest, "digest algorithm")
	fs.IntVar(&config.Iterations, "i", config.Iterations, "iteration count")
	fs.IntVar(&config.SaltLength, "l", config.SaltLength, "salt length (bytes)")
	fs.IntVar(&config.VerifierLength, "v", config.VerifierLength, "verifier length (bytes)")
	fs.IntVar(&config.MaxPasswordLength, "m", config.MaxPasswordLength, "max password length (bytes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
