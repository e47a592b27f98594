package fingerprint

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// keccak256("hello")
const helloHash = "0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8"

func TestCompute_KnownVector(t *testing.T) {
	res, err := Compute([]byte("hello"))

	require.NoError(t, err)
	assert.Equal(t, helloHash, res.Fingerprint.Hex())
	assert.False(t, res.Lossy)
}

func TestCompute_Deterministic(t *testing.T) {
	data := make([]byte, 4096)
	_, err := rand.Read(data)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		a, err := Compute(data)
		require.NoError(t, err)
		b, err := Compute(append([]byte(nil), data...))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestCompute_DistinctInputs(t *testing.T) {
	seen := make(map[domain.Fingerprint]string)
	inputs := []string{"hello", "hello ", "Hello", "hello\n", "a", "b", "document v1", "document v2"}

	for _, in := range inputs {
		res, err := Compute([]byte(in))
		require.NoError(t, err)
		prev, dup := seen[res.Fingerprint]
		assert.False(t, dup, "%q collides with %q", in, prev)
		seen[res.Fingerprint] = in
	}
}

func TestCompute_Empty(t *testing.T) {
	_, err := Compute(nil)
	assert.ErrorIs(t, err, domain.ErrNoFingerprint)

	_, err = Compute([]byte{})
	assert.ErrorIs(t, err, domain.ErrNoFingerprint)
}

func TestCompute_BOMIsDropped(t *testing.T) {
	withBOM, err := Compute(append([]byte{0xEF, 0xBB, 0xBF}, "hello"...))
	require.NoError(t, err)

	assert.Equal(t, helloHash, withBOM.Fingerprint.Hex())
	assert.False(t, withBOM.Lossy)

	_, err = Compute([]byte{0xEF, 0xBB, 0xBF})
	assert.ErrorIs(t, err, domain.ErrNoFingerprint)
}

func TestCompute_BinaryIsLossy(t *testing.T) {
	a, err := Compute([]byte{0x68, 0xff, 0x69})
	require.NoError(t, err)
	b, err := Compute([]byte{0x68, 0xfe, 0x69})
	require.NoError(t, err)

	assert.True(t, a.Lossy)
	// Both invalid bytes decode to U+FFFD, so the documents collide.
	assert.Equal(t, a.Fingerprint, b.Fingerprint)

	expected, err := Text("h\uFFFDi")
	require.NoError(t, err)
	assert.Equal(t, expected, a.Fingerprint)
}

func TestDecodeText_ReplacesMaximalSubparts(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"truncated three-byte", []byte{0xE2, 0x82, 0x41}, "\uFFFDA"},
		{"truncated at end", []byte{0x41, 0xE2, 0x82}, "A\uFFFD"},
		{"truncated four-byte", []byte{0xF0, 0x9F, 0x98, 0x41}, "\uFFFDA"},
		{"lone continuations", []byte{0x80, 0x80}, "\uFFFD\uFFFD"},
		{"overlong lead", []byte{0xC0, 0xAF}, "\uFFFD\uFFFD"},
		{"surrogate", []byte{0xED, 0xA0, 0x80}, "\uFFFD\uFFFD\uFFFD"},
		{"above range", []byte{0xF4, 0x90, 0x80, 0x80}, "\uFFFD\uFFFD\uFFFD\uFFFD"},
		{"valid kept", []byte{0xE2, 0x82, 0xAC, 0xFF}, "\u20AC\uFFFD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, lossy := decodeText(tt.in)

			assert.True(t, lossy)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCompute_TruncatedSequenceIsOneReplacement(t *testing.T) {
	res, err := Compute([]byte{0xE2, 0x82, 0x41})
	require.NoError(t, err)

	expected, err := Text("\uFFFDA")
	require.NoError(t, err)
	assert.Equal(t, expected, res.Fingerprint)
	assert.True(t, res.Lossy)
}

func TestComputeRaw(t *testing.T) {
	a, err := ComputeRaw([]byte{0x68, 0xff, 0x69})
	require.NoError(t, err)
	b, err := ComputeRaw([]byte{0x68, 0xfe, 0x69})
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
	assert.False(t, a.Lossy)

	_, err = ComputeRaw(nil)
	assert.ErrorIs(t, err, domain.ErrNoFingerprint)
}

func TestComputeMode(t *testing.T) {
	text, err := ComputeMode(domain.FingerprintText, []byte("hello"))
	require.NoError(t, err)
	raw, err := ComputeMode(domain.FingerprintRaw, []byte("hello"))
	require.NoError(t, err)

	// Valid text hashes identically either way.
	assert.Equal(t, text.Fingerprint, raw.Fingerprint)
}

func TestText(t *testing.T) {
	fp, err := Text("hello")
	require.NoError(t, err)
	assert.Equal(t, helloHash, fp.Hex())

	_, err = Text("")
	assert.ErrorIs(t, err, domain.ErrNoFingerprint)
}
