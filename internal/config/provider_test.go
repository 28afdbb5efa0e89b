package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_MissingRequiredFields(t *testing.T) {
	_, err := Parse([]byte("primary_ns: ns1.example.net\n"))
	require.Error(t, err)
	for _, field := range []string{"base_dir", "provider", "contact_email"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidate_BadContactEmail(t *testing.T) {
	_, err := Parse([]byte(`base_dir: /srv
provider: dryrun
contact_email: "a@b@example.com"
`))
	assert.ErrorContains(t, err, "contact_email")
}

func TestValidate_NegativeTimeout(t *testing.T) {
	_, err := Parse([]byte(`base_dir: /srv
provider: dryrun
contact_email: it@example.com
timeout: -5s
`))
	assert.Error(t, err)
}

func TestSettings_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_IDENTITY_URL", "https://identity.example.net/v2.0")

	cfg, err := Parse([]byte(`base_dir: /srv
provider: clouddns
contact_email: it@example.com
settings:
  identity_url: "${TEST_IDENTITY_URL}"
  region: DFW
`))
	require.NoError(t, err)

	assert.Equal(t, "https://identity.example.net/v2.0", cfg.Settings["identity_url"])
	assert.Equal(t, "DFW", cfg.Settings["region"], "non-env values unchanged")
}

func TestSettings_EnvVarUnset(t *testing.T) {
	cfg, err := Parse([]byte(`base_dir: /srv
provider: clouddns
contact_email: it@example.com
settings:
  dns_url: "${UNSET_VAR_THAT_DOES_NOT_EXIST}"
`))
	require.NoError(t, err)

	assert.Empty(t, cfg.Settings["dns_url"])
}

func TestSettings_CredentialFile(t *testing.T) {
	cfg, err := Parse([]byte(`base_dir: /srv/zonefiles
provider: clouddns
contact_email: it@example.com
`))
	require.NoError(t, err)
	assert.Equal(t, "/srv/zonefiles/cloudcred", cfg.Settings["credential_file"], "defaults under base_dir")

	cfg, err = Parse([]byte(`base_dir: /srv/zonefiles
provider: clouddns
contact_email: it@example.com
settings:
  credential_file: /etc/zone-import/cred.yaml
`))
	require.NoError(t, err)
	assert.Equal(t, "/etc/zone-import/cred.yaml", cfg.Settings["credential_file"])
}
