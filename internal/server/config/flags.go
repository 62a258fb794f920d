package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/mpavlovs/attachd/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-k string   storage backend kind ("local" or "s3")
//	-l string   local storage base directory
//	-w string   staging (work) directory for uploads
//	-x string   storage key prefix
//	-y string   allowed content types, comma-separated ("image" expands)
//	-n int      minimum upload size, bytes
//	-m int      maximum upload size, bytes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-k", "-l", "-w", "-x", "-y", "-n", "-m",
		"-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend kind")
	fs.StringVar(&config.LocalStorageDir, "l", config.LocalStorageDir, "local storage directory")
	fs.StringVar(&config.StagingDir, "w", config.StagingDir, "staging directory")
	fs.StringVar(&config.PathPrefix, "x", config.PathPrefix, "storage key prefix")

	contentTypes := fs.String("y", strings.Join(config.ContentTypes, ","), "allowed content types, comma-separated")
	fs.Int64Var(&config.MinSize, "n", config.MinSize, "minimum upload size (bytes)")
	fs.Int64Var(&config.MaxSize, "m", config.MaxSize, "maximum upload size (bytes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute

	if *contentTypes != "" {
		parts := strings.Split(*contentTypes, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		config.ContentTypes = out
	}
}
