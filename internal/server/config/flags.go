package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/flagx"
)

// parseFlags overlays command-line flags on config.
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t int        access token validity, minutes
//	-r int        refresh token validity, minutes
//	-blob string  blob backend: fs or s3
//	-upload-dir   upload directory for the fs backend
//	-max-upload   max upload size, bytes
//	-ext string   comma separated allowed extensions ("" allows any)
//	-u, -p, -b, -g, -e, -k   S3 user, password, bucket, region, endpoint, key prefix
//	-cache-size, -cache-ttl  download link cache
//	-log-level, -log-output, -log-file
//	-shutdown-timeout
//
// Unknown flags such as -c are filtered out before parsing.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("linkshare", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.BlobBackend, "blob", config.BlobBackend, "blob backend (fs|s3)")
	fs.StringVar(&config.UploadDir, "upload-dir", config.UploadDir, "upload directory")
	fs.Int64Var(&config.MaxUploadSize, "max-upload", config.MaxUploadSize, "max upload size in bytes")
	extensions := fs.String("ext", strings.Join(config.AllowedExtensions, ","), "allowed file extensions")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3KeyPrefix, "k", config.S3KeyPrefix, "S3 object key prefix")

	fs.IntVar(&config.LinkCacheSize, "cache-size", config.LinkCacheSize, "download link cache size (0 disables)")
	fs.DurationVar(&config.LinkCacheTTL, "cache-ttl", config.LinkCacheTTL, "download link cache TTL")

	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogOutput, "log-output", config.LogOutput, "log output (stdout|file|both)")
	fs.StringVar(&config.LogFile, "log-file", config.LogFile, "log file path")

	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "graceful shutdown timeout")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags(fs))); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
	config.AllowedExtensions = splitExtensions(*extensions)

	return nil
}

func knownFlags(fs *flag.FlagSet) []string {
	var names []string
	fs.VisitAll(func(f *flag.Flag) {
		names = append(names, "-"+f.Name, "--"+f.Name)
	})
	return names
}

// splitExtensions normalises "PDF, .txt" into [".pdf", ".txt"].
func splitExtensions(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
