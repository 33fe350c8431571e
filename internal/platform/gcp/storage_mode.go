package gcp

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

// ErrStorageNotConfigured is returned when no media bucket is configured at all.
var ErrStorageNotConfigured = errors.New("object storage not configured")

type ObjectStorageConfig struct {
	Mode          ObjectStorageMode
	EmulatorHost  string
	PublicBaseURL string
	Buckets       map[BucketCategory]BucketConfig
}

type BucketConfig struct {
	Name      string
	CDNDomain string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

// ResolveObjectStorageConfigFromEnv reads OBJECT_STORAGE_MODE,
// STORAGE_EMULATOR_HOST and the bucket for each media category.
// <CATEGORY>_GCS_BUCKET_NAME wins over MEDIA_GCS_BUCKET_NAME.
func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost: strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/"),
		Buckets:      map[BucketCategory]BucketConfig{},
	}

	rawMode := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	switch ObjectStorageMode(strings.ToLower(rawMode)) {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		} else {
			cfg.Mode = ObjectStorageModeGCS
		}
	case ObjectStorageModeGCS:
		cfg.Mode = ObjectStorageModeGCS
	case ObjectStorageModeGCSEmulator:
		cfg.Mode = ObjectStorageModeGCSEmulator
	default:
		return cfg, fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", rawMode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	}

	fallbackName := strings.TrimSpace(os.Getenv("MEDIA_GCS_BUCKET_NAME"))
	fallbackCDN := strings.TrimSpace(os.Getenv("MEDIA_CDN_DOMAIN"))
	for _, cat := range AllBucketCategories {
		prefix := strings.ToUpper(string(cat))
		name := strings.TrimSpace(os.Getenv(prefix + "_GCS_BUCKET_NAME"))
		cdn := strings.TrimSpace(os.Getenv(prefix + "_CDN_DOMAIN"))
		if name == "" {
			name = fallbackName
		}
		if cdn == "" {
			cdn = fallbackCDN
		}
		if name != "" {
			cfg.Buckets[cat] = BucketConfig{Name: name, CDNDomain: cdn}
		}
	}

	if raw := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL")); raw != "" {
		if !isAbsoluteURL(raw) {
			return cfg, fmt.Errorf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", raw)
		}
		cfg.PublicBaseURL = strings.TrimRight(raw, "/")
	}

	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
	default:
		return fmt.Errorf("invalid object storage mode %q", cfg.Mode)
	}
	if len(cfg.Buckets) == 0 {
		return ErrStorageNotConfigured
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	}
	if !isAbsoluteURL(cfg.EmulatorHost) {
		return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", cfg.EmulatorHost)
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && strings.TrimSpace(u.Scheme) != "" && strings.TrimSpace(u.Host) != ""
}
