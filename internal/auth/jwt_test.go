package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	ts := TokenService{Secret: []byte("test-secret"), Issuer: "upnext", Duration: time.Hour}

	token, exp, err := ts.Sign("desktop")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "desktop", claims.SessionID)
	assert.Equal(t, "upnext", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := TokenService{Secret: []byte("test-secret"), Issuer: "upnext", Duration: time.Hour}
	token, _, err := ts.Sign("desktop")
	require.NoError(t, err)

	other := TokenService{Secret: []byte("different"), Issuer: "upnext", Duration: time.Hour}
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	ts := TokenService{Secret: []byte("test-secret"), Issuer: "upnext", Duration: -time.Minute}
	token, _, err := ts.Sign("desktop")
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	ts := TokenService{Secret: []byte("test-secret"), Issuer: "upnext", Duration: time.Hour}
	_, err := ts.Parse("not.a.token")
	assert.Error(t, err)
}
