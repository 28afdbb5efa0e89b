package clouddns

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
	"gopkg.in/ini.v1"
)

// iniSection is the section pyrax credential files keep the account in.
const iniSection = "rackspace_cloud"

// Credentials identify the account used to authenticate against the
// identity service.
type Credentials struct {
	Username string `yaml:"username" ini:"username"`
	APIKey   string `yaml:"api_key" ini:"api_key"`
	TenantID string `yaml:"tenant_id" ini:"tenant_id"`
}

// LoadCredentials reads a credential file. Both the pyrax INI layout
// ([rackspace_cloud] with username/api_key) and a flat YAML document are
// accepted.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("clouddns: reading credential file: %w", err)
	}

	var c Credentials
	if isINI(data) {
		err = parseINI(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("clouddns: parsing credential file: %w", err)
	}
	if c.Username == "" {
		return nil, fmt.Errorf("clouddns: credential file %s: missing 'username'", path)
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("clouddns: credential file %s: missing 'api_key'", path)
	}
	return &c, nil
}

// isINI reports whether the first significant line is a section header.
func isINI(data []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		return strings.HasPrefix(line, "[")
	}
	return false
}

func parseINI(data []byte, c *Credentials) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}
	sec, err := f.GetSection(iniSection)
	if err != nil {
		return fmt.Errorf("no [%s] section", iniSection)
	}
	return sec.MapTo(c)
}
