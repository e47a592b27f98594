package pinning

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

func TestCreatePinner(t *testing.T) {
	tests := []struct {
		provider domain.PinningProvider
		name     string
	}{
		{domain.PinningPinata, "pinata"},
		{"", "pinata"},
		{domain.PinningKubo, "kubo"},
	}

	for _, tt := range tests {
		p, err := CreatePinner(domain.PinningSettings{Provider: tt.provider})
		require.NoError(t, err)
		assert.Equal(t, tt.name, p.Name())
	}

	_, err := CreatePinner(domain.PinningSettings{Provider: "filebin"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := CreatePinner(domain.PinningSettings{Provider: domain.PinningKubo, Endpoint: srv.URL})
	require.NoError(t, err)

	err = Validate(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadNetwork)
	assert.Contains(t, err.Error(), "kubo unreachable")
}
