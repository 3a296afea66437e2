package config

import "os"

// Config is the process environment, loaded once at startup.
type Config struct {
	HTTPPort       string
	GameConfigPath string
	QuestionFile   string
	QuestionSource string // "file" or "mongo"
	MongoURI       string
	RedisAddr      string // empty disables the win leaderboard
	PublicDir      string
}

func Load() *Config {
	return &Config{
		HTTPPort:       getEnv("PORT", "3000"),
		GameConfigPath: getEnv("GAME_CONFIG", "config/game.json"),
		QuestionFile:   getEnv("QUESTION_FILE", "data/question.json"),
		QuestionSource: getEnv("QUESTION_SOURCE", "file"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		PublicDir:      getEnv("PUBLIC_DIR", "public"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
