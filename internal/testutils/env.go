package testutils

import "os"

// SavedEnv captures the previous state of an environment variable.
type SavedEnv struct {
	Key   string
	Had   bool
	Value string
}

// SetEnv sets an environment variable and returns its previous state.
func SetEnv(key, value string) SavedEnv {
	prev, had := os.LookupEnv(key)
	_ = os.Setenv(key, value)
	return SavedEnv{Key: key, Had: had, Value: prev}
}

// RestoreEnv restores environment variables to a previously saved state.
func RestoreEnv(envs []SavedEnv) {
	for _, env := range envs {
		if env.Had {
			_ = os.Setenv(env.Key, env.Value)
		} else {
			_ = os.Unsetenv(env.Key)
		}
	}
}

// SetTestEnv applies the PHOTO_* variables shared by every package's TestMain:
// debug mode, a fixed JWT secret, relative media paths and no Redis/Telegram.
func SetTestEnv() []SavedEnv {
	return []SavedEnv{
		SetEnv("PHOTO_SERVER_MODE", "debug"),
		SetEnv("PHOTO_JWT_SECRET", "test_secret"),
		SetEnv("PHOTO_JWT_EXPIRATION_HOURS", "24"),
		SetEnv("PHOTO_SESSION_SECRET", "test_session_secret_0123456789ab"),
		SetEnv("PHOTO_UPLOAD_PATH", "uploads/media"),
		SetEnv("PHOTO_UPLOAD_URL_PREFIX", "/media/"),
		SetEnv("PHOTO_REDIS_ENABLED", "false"),
		SetEnv("PHOTO_TELEGRAM_ENABLED", "false"),
	}
}
