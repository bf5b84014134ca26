package config

import "testing"

func TestGetDatabaseDSN(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "from DB_* variables",
			env: map[string]string{
				"DB_USER":     "observer",
				"DB_PASSWORD": "secret",
				"DB_HOST":     "mysql",
				"DB_PORT":     "3307",
				"DB_NAME":     "airquality",
			},
			want: "observer:secret@tcp(mysql:3307)/airquality?parseTime=true",
		},
		{
			name: "from DATABASE_DSN",
			env: map[string]string{
				"DATABASE_DSN": "custom:dsn@tcp(custom:3306)/customdb?parseTime=true",
			},
			want: "custom:dsn@tcp(custom:3306)/customdb?parseTime=true",
		},
		{
			name: "partial DB_* variables fall back to default",
			env: map[string]string{
				"DB_USER":     "observer",
				"DB_PASSWORD": "secret",
			},
			want: "aqi:aqi@tcp(localhost:3306)/aqi?parseTime=true",
		},
		{
			name: "default",
			env:  map[string]string{},
			want: "aqi:aqi@tcp(localhost:3306)/aqi?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME", "DATABASE_DSN"} {
				t.Setenv(key, tt.env[key])
			}

			if got := GetDatabaseDSN(); got != tt.want {
				t.Errorf("GetDatabaseDSN() = %v, want %v", got, tt.want)
			}
		})
	}
}
