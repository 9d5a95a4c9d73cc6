package l10n

import (
	"context"
	"testing"

	"github.com/mmcdole/syncpanel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	b, err := New("en-US")
	require.NoError(t, err)

	s, err := b.FormatValue(context.Background(), domain.ErrorOffline)
	require.NoError(t, err)
	assert.Equal(t, "You are offline", s)

	s, err = b.FormatValue(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrMissingString)
	assert.Equal(t, "does-not-exist", s)
}

func TestFormatSubstitutesArgs(t *testing.T) {
	b, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "Signed in as a@example.com",
		b.Format("fxsync-signed-in-as", map[string]string{"email": "a@example.com"}))
	assert.Equal(t, "Signed in as { $email }", b.Format("fxsync-signed-in-as", nil))
	assert.Equal(t, "missing-id", b.Format("missing-id", nil))
}

func TestLocaleFallback(t *testing.T) {
	b, err := New("fr")
	require.NoError(t, err)
	assert.Equal(t, "fr", b.Locale())
	assert.Equal(t, "Vous êtes hors ligne", b.Format(domain.ErrorOffline, nil))
	// Absent from fr, present in en-US
	assert.Equal(t, "OK", b.Format("dialog-ok", nil))

	b, err = New("xx")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, b.Locale())
}
