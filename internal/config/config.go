package config

type AppConfig struct {
	APIPort     string `env:"PORT" envDefault:"12222"`
	APIKey      string `env:"API_KEY"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
}

type DatabaseConfig struct {
	Host            string `env:"POSTGRES_HOST,required"`
	Port            string `env:"POSTGRES_PORT,required"`
	User            string `env:"POSTGRES_USER,required"`
	DBName          string `env:"POSTGRES_DB_NAME,required"`
	Password        string `env:"POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"POSTGRES_DB_MAX_CONN" envDefault:"50"`
	MaxIdleConn     int    `env:"POSTGRES_DB_MAX_IDLE_CONN" envDefault:"10"`
	ConnMaxLifetime int    `env:"POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
}

type FetchConfig struct {
	// WindowHours is how far back the unseen-message query reaches.
	WindowHours int `env:"FETCH_WINDOW_HOURS" envDefault:"24"`
	// IntervalSeconds drives the fetch daemon's sleep between runs.
	IntervalSeconds int `env:"FETCH_INTERVAL_SECONDS" envDefault:"120"`
	// Folder is the inbox-equivalent folder polled on every run.
	Folder string `env:"FETCH_FOLDER" envDefault:"INBOX"`
}
