package postgres

import (
	"testing"

	"talent-match/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN_QuotesValuesAndSkipsEmpty(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		DBHost:     "db.internal",
		DBPort:     "5432",
		DBUser:     "talent",
		DBPassword: `it's a secret`,
		DBName:     "talent",
	})

	assert.Equal(t, `host='db.internal' port='5432' user='talent' password='it\'s a secret' dbname='talent'`, dsn)
}
