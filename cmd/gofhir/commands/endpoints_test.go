package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	config := &Config{
		Current: "local",
		Endpoints: map[string]string{
			"local": "http://localhost:8080/",
			"vonk":  "https://vonk.fire.ly/",
		},
	}

	require.NoError(t, saveConfigTo(path, config))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := loadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadConfigFrom_Missing(t *testing.T) {
	t.Parallel()

	loaded, err := loadConfigFrom(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, loaded)
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("current: [not, a, string"), 0o600))

	_, err := loadConfigFrom(path)
	require.Error(t, err)
}

func TestSplitSearchArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantType     string
		wantCriteria []string
	}{
		{"no args", nil, "", nil},
		{"type only", []string{"Patient"}, "Patient", []string{}},
		{"type with criteria", []string{"Patient", "name=Peter"}, "Patient", []string{"name=Peter"}},
		{"whole system", []string{"_id=example"}, "", []string{"_id=example"}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			resourceType, criteria := splitSearchArgs(test.args)
			assert.Equal(t, test.wantType, resourceType)
			assert.Equal(t, test.wantCriteria, criteria)
		})
	}
}
