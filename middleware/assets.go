package middleware

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"log"
	"os"
	"sync"
)

var (
	cssVersion        string
	appJSVersion      string
	assetVersionsOnce sync.Once
)

// InitAssetVersions computes file hashes for cache busting at startup
func InitAssetVersions() {
	assetVersionsOnce.Do(func() {
		cssVersion = computeFileHash("static/css/style.css")
		if cssVersion == "" {
			cssVersion = "1"
		}
		log.Printf("[INFO] CSS version initialized: %s", cssVersion)

		appJSVersion = computeFileHash("static/js/app.js")
		if appJSVersion == "" {
			appJSVersion = "1"
		}
		log.Printf("[INFO] App JS version initialized: %s", appJSVersion)
	})
}

// computeFileHash returns the first 8 characters of the MD5 hash of a file
func computeFileHash(path string) string {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("[WARNING] Failed to open file for hashing %s: %v", path, err)
		return ""
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		log.Printf("[WARNING] Failed to hash file %s: %v", path, err)
		return ""
	}

	// Return first 8 chars of the hash for brevity
	return hex.EncodeToString(hash.Sum(nil))[:8]
}

// GetCSSVersion returns the CSS file version hash for cache busting
func GetCSSVersion() string {
	if cssVersion == "" {
		return "1"
	}
	return cssVersion
}

// GetAppJSVersion returns the app.js file version hash for cache busting
func GetAppJSVersion() string {
	if appJSVersion == "" {
		return "1"
	}
	return appJSVersion
}
