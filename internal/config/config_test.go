package config

import (
	"testing"

	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRemoteOverridesWinOverFile(t *testing.T) {
	file := &File{}
	file.R2.Endpoint = "https://file.example.com"
	file.R2.Bucket = "file-bucket"
	file.R2.AccessKeyID = "file-key"
	file.R2.SecretAccessKey = "file-secret"

	cfg, err := ResolveRemote(file, Overrides{Endpoint: "https://override.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", cfg.Endpoint)
	assert.Equal(t, "file-bucket", cfg.Bucket)
	assert.Equal(t, "auto", cfg.Region)
}

func TestResolveRemoteMissingCredential(t *testing.T) {
	_, err := ResolveRemote(&File{}, Overrides{})
	require.Error(t, err)
	kind, ok := shahaerr.Of(err)
	require.True(t, ok)
	assert.Equal(t, shahaerr.KindMissingCredential, kind)
}

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	t.Chdir(t.TempDir())
	f, err := Load()
	require.NoError(t, err)
	assert.Empty(t, f.R2.Endpoint)
}
