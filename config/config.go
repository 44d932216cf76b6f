package config

type AppConfig struct {
	APIPort     string `env:"PORT" envDefault:"8090"`
	APIKey      string `env:"API_KEY"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
}

type DatabaseConfig struct {
	Host            string `env:"SNAPSTACK_POSTGRES_HOST,required"`
	Port            string `env:"SNAPSTACK_POSTGRES_PORT,required"`
	User            string `env:"SNAPSTACK_POSTGRES_USER,required"`
	DBName          string `env:"SNAPSTACK_POSTGRES_DB_NAME,required"`
	Password        string `env:"SNAPSTACK_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"SNAPSTACK_POSTGRES_DB_MAX_CONN"`
	MaxIdleConn     int    `env:"SNAPSTACK_POSTGRES_DB_MAX_IDLE_CONN"`
	ConnMaxLifetime int    `env:"SNAPSTACK_POSTGRES_DB_CONN_MAX_LIFETIME"`
	LogLevel        string `env:"SNAPSTACK_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"SNAPSTACK_POSTGRES_SSL_MODE" envDefault:"require"`
}

type StorageConfig struct {
	AccountID       string `env:"CLOUDFLARE_R2_ACCOUNT_ID,required"`
	AccessKeyID     string `env:"CLOUDFLARE_R2_ACCESS_KEY_ID,required"`
	AccessKeySecret string `env:"CLOUDFLARE_R2_ACCESS_KEY_SECRET,required"`
	PhotoBucket     string `env:"BUCKET_NAME_PHOTOS" envDefault:"food-photos"`
	CDNDomain       string `env:"PHOTO_CDN_DOMAIN"`
}

type MailgunConfig struct {
	BaseURL    string `env:"MAILGUN_BASE_URL" envDefault:"https://api.mailgun.net/v3"`
	Domain     string `env:"MAILGUN_DOMAIN"`
	APIKey     string `env:"MAILGUN_API_KEY"`
	ReplyFrom  string `env:"MAILGUN_REPLY_FROM"`
	SigningKey string `env:"MAILGUN_WEBHOOK_SIGNING_KEY"`
}

type SessionConfig struct {
	SecretKey          string `env:"SESSION_SECRET_KEY"`
	MaxAgeSeconds      int    `env:"SESSION_MAX_AGE_SECONDS" envDefault:"2592000"`
	SecureCookies      bool   `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
	GoogleClientKey    string `env:"GOOGLE_OAUTH_CLIENT_KEY"`
	GoogleClientSecret string `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	OAuthCallbackURL   string `env:"GOOGLE_OAUTH_CALLBACK_URL" envDefault:"http://localhost:8090/api/auth/oauth/google/callback"`
}
