package config

import "time"

type Config struct {
	Web  Web
	Cors Cors
	DB   DB
	Auth Auth
	Rate Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string `conf:"default:http://localhost:3000"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:shoply"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
}

type Auth struct {
	Secret         string        `conf:"default:secret,mask"`
	AccessTimeout  time.Duration `conf:"default:15m"`
	RefreshTimeout time.Duration `conf:"default:24h"`
}

type Rate struct {
	Burst      int     `conf:"default:10"`
	ExpiryMins int     `conf:"default:10"`
	RPS        float64 `conf:"default:5"`
}
