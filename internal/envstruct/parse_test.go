package envstruct_test

import (
	"errors"
	"testing"

	"github.com/liftline/liftline/internal/envstruct"
)

func lookupFromMap(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		val, ok := env[key]
		return val, ok
	}
}

func TestPopulate(t *testing.T) {
	type config struct {
		Addr     string `env:"TEST_ADDR" envDefault:"localhost:8080"`
		DBURL    string `env:"TEST_DB_URL"`
		TTLHours int    `env:"TEST_TTL_HOURS" envDefault:"24"`
		Debug    bool   `env:"TEST_DEBUG" envDefault:"false"`
	}

	tests := []struct {
		name    string
		env     map[string]string
		want    config
		wantErr bool
	}{
		{
			name: "all set",
			env: map[string]string{
				"TEST_ADDR":      "localhost:9999",
				"TEST_DB_URL":    ":memory:",
				"TEST_TTL_HOURS": "12",
				"TEST_DEBUG":     "true",
			},
			want: config{Addr: "localhost:9999", DBURL: ":memory:", TTLHours: 12, Debug: true},
		},
		{
			name: "defaults applied",
			env:  map[string]string{"TEST_DB_URL": "./liftline.sqlite3"},
			want: config{Addr: "localhost:8080", DBURL: "./liftline.sqlite3", TTLHours: 24, Debug: false},
		},
		{
			name:    "missing required variable",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "invalid int",
			env: map[string]string{
				"TEST_DB_URL":    ":memory:",
				"TEST_TTL_HOURS": "a day",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config
			err := envstruct.Populate(&cfg, lookupFromMap(tt.env))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Populate() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Populate() error = %v", err)
			}
			if cfg != tt.want {
				t.Errorf("Populate() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestPopulateRejectsNonStructs(t *testing.T) {
	var s string
	if err := envstruct.Populate(&s, lookupFromMap(nil)); !errors.Is(err, envstruct.ErrInvalidValue) {
		t.Errorf("Populate(&string) error = %v, want ErrInvalidValue", err)
	}

	type config struct{}
	var cfg config
	if err := envstruct.Populate(cfg, lookupFromMap(nil)); !errors.Is(err, envstruct.ErrInvalidValue) {
		t.Errorf("Populate(non-pointer) error = %v, want ErrInvalidValue", err)
	}
}
