package utils

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func GetFileMD5(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return ``, err
	}
	defer file.Close()

	md5Hash := md5.New() //nolint:gosec
	if _, err := io.Copy(md5Hash, file); err != nil {
		return ``, err
	}

	return hex.EncodeToString(md5Hash.Sum(nil)), nil
}

// ObjectName names an upload by content under prefix, keeping the
// original extension.
func ObjectName(prefix, path string) (string, error) {
	sum, err := GetFileMD5(path)
	if err != nil {
		return "", err
	}
	return prefix + "/" + sum + strings.ToLower(filepath.Ext(path)), nil
}
