package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Keed0303/ecommerce-starter-app/internal/daemon"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

func TestPrintSeeded(t *testing.T) {
	tests := []struct {
		name string
		res  *daemon.SeedResult
		want string
	}{
		{"users exist", &daemon.SeedResult{}, "seeded permissions and roles, users already exist\n"},
		{
			"configured password",
			&daemon.SeedResult{Admin: &models.User{Email: "admin@example.com"}},
			"seeded permissions and roles, admin user admin@example.com created\n",
		},
		{
			"generated password",
			&daemon.SeedResult{Admin: &models.User{Email: "admin@example.com"}, GeneratedPassword: "s3cr3t"},
			"seeded permissions and roles, admin user admin@example.com created\ngenerated password: s3cr3t\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			printSeeded(&out, tt.res)
			assert.Equal(t, tt.want, out.String())
		})
	}
}
