package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.Equal(t, 9000, GetInt(ListeningPortKey))
	require.Equal(t, DbBadger, GetString(DbTypeKey))
	require.Equal(t, 15, GetInt(WebhookRequestTimeoutKey))
	require.NotEmpty(t, GetDatadir())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{
			name:  "invalid_db_type",
			key:   DbTypeKey,
			value: "postgres",
		},
		{
			name:  "invalid_port",
			key:   ListeningPortKey,
			value: 0,
		},
		{
			name:  "invalid_webhook_timeout",
			key:   WebhookRequestTimeoutKey,
			value: -1,
		},
		{
			name:  "tls_cert_without_key",
			key:   TLSCertKey,
			value: "/path/to/cert.pem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := vip.Get(tt.key)
			Set(tt.key, tt.value)
			defer Set(tt.key, prev)

			require.Error(t, validate())
		})
	}

	require.NoError(t, validate())
}
