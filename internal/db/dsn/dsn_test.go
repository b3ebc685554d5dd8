package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/better-auth-admin/better-auth-admin/internal/config"
)

func TestCreate(t *testing.T) {
	base := config.DB{
		Host:     "db.local",
		Port:     3306,
		User:     "admin",
		Password: "secret",
		Name:     "audit",
	}

	tests := []struct {
		name   string
		engine string
		extras string
		dbName string
		want   string
	}{
		{
			name:   "mysql",
			engine: config.EngineMySQL,
			extras: "parseTime=true",
			want:   "admin:secret@tcp(db.local:3306)/audit?parseTime=true",
		},
		{
			name:   "postgres",
			engine: config.EnginePostgres,
			extras: "sslmode=disable",
			want:   "host=db.local port=3306 user=admin password=secret dbname=audit sslmode=disable",
		},
		{
			name:   "postgres without extras",
			engine: config.EnginePostgres,
			want:   "host=db.local port=3306 user=admin password=secret dbname=audit",
		},
		{
			name:   "sqlite default pragmas",
			engine: config.EngineSQLite,
			dbName: "./data/admin.db",
			want:   "./data/admin.db?" + sqlitePragmas,
		},
		{
			name:   "sqlite custom query",
			engine: config.EngineSQLite,
			dbName: "file:admin.db?cache=shared",
			extras: "_pragma=busy_timeout(100)",
			want:   "file:admin.db?cache=shared&_pragma=busy_timeout(100)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := base
			db.GormEngine = tt.engine
			db.Extras = tt.extras

			if tt.dbName != "" {
				db.Name = tt.dbName
			}

			assert.Equal(t, tt.want, Create(&config.Config{DB: db}))
		})
	}
}
