package utils

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword 返回 32 位十六进制 MD5 摘要
func HashPassword(pw string) string {
	sum := md5.Sum([]byte(pw))
	return hex.EncodeToString(sum[:])
}

func CheckPassword(pw, hashed string) bool {
	return subtle.ConstantTimeCompare([]byte(HashPassword(pw)), []byte(hashed)) == 1
}
