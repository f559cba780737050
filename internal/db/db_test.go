package db

import (
	"testing"

	"github.com/devmarket/marketplace-backend/internal/config"
)

func TestBuildDSN(t *testing.T) {
	base := config.Config{
		DBUser:     "app",
		DBPassword: "secret",
		DBName:     "marketplace",
		DBPort:     "3306",
	}

	tests := []struct {
		name     string
		host     string
		instance string
		want     string
	}{
		{
			"tcp host",
			"127.0.0.1", "",
			"app:secret@tcp(127.0.0.1:3306)/marketplace?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			"cloud sql instance",
			"ignored", "proj:region:instance",
			"app:secret@unix(/cloudsql/proj:region:instance)/marketplace?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			"socket path",
			"/var/run/mysqld/mysqld.sock", "",
			"app:secret@unix(/var/run/mysqld/mysqld.sock)/marketplace?charset=utf8mb4&parseTime=True&loc=Local",
		},
		{
			"explicit tcp prefix",
			"tcp(db:3307)", "",
			"app:secret@tcp(db:3307)/marketplace?charset=utf8mb4&parseTime=True&loc=Local",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.DBHost = tt.host
			cfg.InstanceConnectionName = tt.instance
			if got := BuildDSN(&cfg); got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}
