package config

import "os"

func IsDebug() bool {
	return os.Getenv("AGRIAID_DEBUG") == "1"
}
