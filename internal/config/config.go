package config

import "os"

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）
}

// Loadは環境変数から設定を読む。
// DB接続はinfra/db側がDATABASE_URL / POSTGRES_*を直接読む
func Load() Config {
	return Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),
		FEURL: getenv("FE_URL", "http://localhost:5173"),
	}
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
