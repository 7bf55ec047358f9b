package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linknk/satellite-payments/internal/core"
)

func newViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, value := range values {
		v.Set(key, value)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.safaricom.co.ke", cfg.Mpesa.APIURL)
	assert.Equal(t, "LinkNK", cfg.Mpesa.AccountReference)
	assert.Equal(t, "Satellite Bundle Purchase", cfg.Mpesa.TransactionDesc)
	assert.Equal(t, 30*time.Second, cfg.Mpesa.Timeout)
	assert.Equal(t, 400, cfg.Bundle.Amount)
	assert.Equal(t, 30*24*time.Hour, cfg.Bundle.Validity)
}

func TestCallbackURL(t *testing.T) {
	t.Parallel()

	cfg, err := FromViper(newViper(map[string]interface{}{"APP_BASE_URL": "https://pay.linknk.co.ke/"}))
	require.NoError(t, err)
	assert.Equal(t, "https://pay.linknk.co.ke/functions/v1/mpesa-callback", cfg.CallbackURL())
}

func TestFromViperRejectsBadValues(t *testing.T) {
	t.Parallel()

	_, err := FromViper(newViper(map[string]interface{}{"HTTP_TIMEOUT": "soon"}))
	assert.Error(t, err)

	_, err = FromViper(newViper(map[string]interface{}{"BUNDLE_AMOUNT": 0}))
	assert.Error(t, err)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("MPESA_CONSUMER_KEY", "key")
	t.Setenv("MPESA_SHORTCODE", "174379")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.Mpesa.ConsumerKey)
	assert.Equal(t, "174379", cfg.Mpesa.Shortcode)
	assert.Equal(t, "9090", cfg.Port)
}

func TestCredentialsValidate(t *testing.T) {
	t.Parallel()

	full := Credentials{ConsumerKey: "k", ConsumerSecret: "s", Passkey: "p", Shortcode: "174379"}
	assert.NoError(t, full.Validate())

	missing := full
	missing.Passkey = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
	assert.Contains(t, err.Error(), "MPESA_PASSKEY")

	err = Credentials{}.Validate()
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}
