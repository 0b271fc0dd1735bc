package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/flagx"
)

var serverFlags = []string{
	"-a", "-m", "-o", "-d", "-n", "-w", "-s", "-t", "-f", "-l", "-x",
	"-u", "-p", "-b", "-g", "-e", "-y", "-k", "-v",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address, empty disables
//	-o string   store driver: memory, sqlite, postgres, mongo
//	-d string   SQLite path or PostgreSQL DSN
//	-n string   MongoDB URI
//	-w string   MongoDB database name
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-f string   blob driver: fs, memory, s3
//	-l string   upload directory for the fs blob driver
//	-x string   public URL prefix for uploaded photos
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-y bool     S3 path-style addressing
//	-k bool     report foreign records as not found
//	-v string   log level
//
// Boolean flags must use the -k=true form when followed by other arguments.
func parseFlags(config *Config, osArgs []string) {
	args := flagx.FilterArgs(osArgs, serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for metrics")
	fs.StringVar(&config.StoreDriver, "o", config.StoreDriver, "store driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "n", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "w", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.BlobDriver, "f", config.BlobDriver, "blob driver")
	fs.StringVar(&config.UploadDir, "l", config.UploadDir, "upload directory")
	fs.StringVar(&config.UploadURLPrefix, "x", config.UploadURLPrefix, "upload URL prefix")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.S3UsePathStyle, "y", config.S3UsePathStyle, "S3 path-style addressing")
	fs.BoolVar(&config.MaskForbidden, "k", config.MaskForbidden, "mask forbidden as not found")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
