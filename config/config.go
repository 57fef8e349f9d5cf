package config

import "time"

type Config struct {
	Web      Web
	DB       DB
	Cors     Cors
	Auth     Auth
	Oauth    Oauth
	Shipping Shipping
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost"`
	Name       string `conf:"default:storefront"`
	DisableTLS bool   `conf:"default:true"`
}

type Cors struct {
	Origin string `conf:"default:"`
}

type Auth struct {
	SessionLifetime time.Duration `conf:"default:24h"`
	LoginRateBurst  int           `conf:"default:5"`
	LoginRateExpiry int           `conf:"default:60"`
	LoginRateEvery  time.Duration `conf:"default:2s"`
}

type Oauth struct {
	DiscoveryTimeout time.Duration `conf:"default:30s"`
	LoginRedirectURL string        `conf:"default:/"`
	Google           Provider
}

type Provider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string
}

// Shipping parametrizes the weight-band cost table. Amounts are cents,
// weights grams.
type Shipping struct {
	BaseCost        int    `conf:"default:500"`
	CostPerKg       int    `conf:"default:100"`
	DomesticCountry string `conf:"default:US"`
	IntlMultiplier  int    `conf:"default:2"`
}
