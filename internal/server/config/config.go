// Package config handles configuration for the LifeLog server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/common"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Blob drivers.
const (
	BlobFS     = "fs"
	BlobMemory = "memory"
	BlobS3     = "s3"
)

// Config holds runtime settings for the LifeLog server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - MetricsAddr: bind address for the Prometheus /metrics endpoint; empty disables it.
//   - StoreDriver: document store backend (memory, sqlite, postgres, mongo).
//   - DatabaseDSN: SQLite file path or PostgreSQL DSN, depending on StoreDriver.
//   - MongoURI / MongoDatabase: MongoDB connection settings.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - BlobDriver: photo storage backend (fs, memory, s3).
//   - UploadDir / UploadURLPrefix: filesystem root for photos and the public prefix of image URLs.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint / S3UsePathStyle: object storage settings.
//   - MaskForbidden: report foreign records as not found instead of forbidden.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrGRPC            string
	MetricsAddr                 string
	StoreDriver                 string
	DatabaseDSN                 string
	MongoURI                    string
	MongoDatabase               string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BlobDriver                  string
	UploadDir                   string
	UploadURLPrefix             string
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	S3UsePathStyle              bool
	MaskForbidden               bool
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.StoreDriver = StoreSQLite
	c.DatabaseDSN = "lifelog.db"
	c.MongoURI = "mongodb://127.0.0.1:27017"
	c.MongoDatabase = "lifelog"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.BlobDriver = BlobFS
	c.UploadDir = "uploads"
	c.UploadURLPrefix = common.DefaultUploadURLPrefix
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "lifelog"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3UsePathStyle = true
	c.MaskForbidden = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
