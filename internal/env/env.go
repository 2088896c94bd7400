package env

import (
	"os"
	"strconv"
)

func Get(k, def string) string {
	v := os.Getenv(k)
	if v == "" { return def }
	return v
}
func GetInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" { return def }
	i, err := strconv.Atoi(v)
	if err != nil { return def }
	return i
}
