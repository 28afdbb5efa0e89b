package clouddns

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/yuriy-kovalchuk/zone-importer/internal/dns"
)

const (
	defaultIdentityURL  = "https://identity.api.rackspacecloud.com/v2.0"
	defaultTimeout      = 5 * time.Second
	defaultPollInterval = time.Second

	statusCompleted = "COMPLETED"
	statusError     = "ERROR"
)

func init() {
	dns.Register("clouddns", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

// Provider implements dns.Provider for Rackspace Cloud DNS.
type Provider struct {
	dnsURL       string
	token        string
	pollInterval time.Duration
	timeout      time.Duration
	client       *http.Client
	log          logr.Logger
}

// New creates a Cloud DNS provider from the given settings map and
// authenticates against the identity service.
// Required settings: credential_file.
// Optional settings: identity_url, dns_url (skips service catalog lookup),
// region, poll_interval (default 1s), skip_tls_verify (default false).
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	credFile := settings["credential_file"]
	if credFile == "" {
		return nil, fmt.Errorf("clouddns: missing required setting 'credential_file'")
	}
	creds, err := LoadCredentials(credFile)
	if err != nil {
		return nil, err
	}

	identityURL := settings["identity_url"]
	if identityURL == "" {
		identityURL = defaultIdentityURL
	}

	pollInterval := defaultPollInterval
	if v := settings["poll_interval"]; v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("clouddns: invalid poll_interval %q: %w", v, err)
		}
		pollInterval = parsed
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if v := settings["skip_tls_verify"]; v == "true" {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	p := &Provider{
		dnsURL:       settings["dns_url"],
		pollInterval: pollInterval,
		timeout:      defaultTimeout,
		client:       &http.Client{Transport: transport, Timeout: defaultTimeout},
		log:          log,
	}
	if err := p.authenticate(context.Background(), identityURL, settings["region"], creds); err != nil {
		return nil, err
	}
	return p, nil
}

// SetTimeout bounds each HTTP call and the wait for an import job.
func (p *Provider) SetTimeout(d time.Duration) {
	p.timeout = d
	p.client.Timeout = d
}

// doRequest builds and executes an HTTP request against the API.
func (p *Provider) doRequest(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("clouddns: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("clouddns: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if p.token != "" {
		req.Header.Set("X-Auth-Token", p.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clouddns: %s %s: %w", method, url, err)
	}
	return resp, nil
}

// authRequest is the API key authentication body of the identity service.
type authRequest struct {
	Auth struct {
		APIKeyCredentials struct {
			Username string `json:"username"`
			APIKey   string `json:"apiKey"`
		} `json:"RAX-KSKEY:apiKeyCredentials"`
		TenantID string `json:"tenantId,omitempty"`
	} `json:"auth"`
}

type authResponse struct {
	Access struct {
		Token struct {
			ID     string `json:"id"`
			Tenant struct {
				ID string `json:"id"`
			} `json:"tenant"`
		} `json:"token"`
		ServiceCatalog []catalogEntry `json:"serviceCatalog"`
	} `json:"access"`
}

type catalogEntry struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Endpoints []struct {
		PublicURL string `json:"publicURL"`
		Region    string `json:"region"`
	} `json:"endpoints"`
}

// authenticate obtains a token and, unless dns_url was configured, the DNS
// endpoint from the service catalog.
func (p *Provider) authenticate(ctx context.Context, identityURL, region string, creds *Credentials) error {
	var body authRequest
	body.Auth.APIKeyCredentials.Username = creds.Username
	body.Auth.APIKeyCredentials.APIKey = creds.APIKey
	body.Auth.TenantID = creds.TenantID

	url := strings.TrimRight(identityURL, "/") + "/tokens"
	resp, err := p.doRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("clouddns: authenticate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("clouddns: authenticate returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return fmt.Errorf("clouddns: decode auth response: %w", err)
	}
	if ar.Access.Token.ID == "" {
		return fmt.Errorf("clouddns: auth response carries no token")
	}
	p.token = ar.Access.Token.ID

	if p.dnsURL == "" {
		p.dnsURL = findEndpoint(ar.Access.ServiceCatalog, region)
		if p.dnsURL == "" {
			return fmt.Errorf("clouddns: no DNS endpoint in service catalog (region %q)", region)
		}
	}
	p.dnsURL = strings.TrimRight(p.dnsURL, "/")

	p.log.Info("authenticated", "user", creds.Username, "tenant", ar.Access.Token.Tenant.ID, "endpoint", p.dnsURL)
	return nil
}

// findEndpoint returns the public URL of the DNS service, preferring an
// endpoint in region when one is given.
func findEndpoint(catalog []catalogEntry, region string) string {
	for _, entry := range catalog {
		if entry.Type != "rax:dns" && entry.Name != "cloudDNS" {
			continue
		}
		fallback := ""
		for _, ep := range entry.Endpoints {
			if region == "" || ep.Region == "" || strings.EqualFold(ep.Region, region) {
				return ep.PublicURL
			}
			if fallback == "" {
				fallback = ep.PublicURL
			}
		}
		return fallback
	}
	return ""
}

// importRequest is the body of POST /domains/import.
type importRequest struct {
	Domains []importDomain `json:"domains"`
}

type importDomain struct {
	ContentType string `json:"contentType"`
	Contents    string `json:"contents"`
}

// job is an asynchronous job as returned by the import call and its
// status callback.
type job struct {
	JobID       string `json:"jobId"`
	Status      string `json:"status"`
	CallbackURL string `json:"callbackUrl"`
	Response    struct {
		Domains []domainRow `json:"domains"`
	} `json:"response"`
	Error *jobError `json:"error"`
}

type jobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (e *jobError) String() string {
	if e.Details == "" {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s (code %d)", e.Message, e.Details, e.Code)
}

type domainRow struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Serial  uint32 `json:"serial,omitempty"`
	Records struct {
		TotalEntries int `json:"totalEntries"`
	} `json:"recordsList"`
}

// ImportDomain submits the zone as a BIND_9 import and waits for the job
// to finish.
func (p *Provider) ImportDomain(ctx context.Context, zone string) (*dns.Domain, error) {
	body := importRequest{Domains: []importDomain{{ContentType: "BIND_9", Contents: zone}}}
	resp, err := p.doRequest(ctx, http.MethodPost, p.dnsURL+"/domains/import", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("clouddns: import returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var j job
	if err := json.NewDecoder(resp.Body).Decode(&j); err != nil {
		return nil, fmt.Errorf("clouddns: decode import response: %w", err)
	}
	p.log.V(1).Info("import job submitted", "job", j.JobID, "status", j.Status)

	final, err := p.waitForJob(ctx, &j)
	if err != nil {
		return nil, err
	}
	return domainFromJob(final)
}

// waitForJob polls the job's callback URL until it completes or fails,
// bounded by the provider timeout.
func (p *Provider) waitForJob(ctx context.Context, j *job) (*job, error) {
	if done(j) {
		return j, nil
	}
	if j.CallbackURL == "" {
		return nil, fmt.Errorf("clouddns: import job %s has no callback URL", j.JobID)
	}

	current := j
	err := wait.PollUntilContextTimeout(ctx, p.pollInterval, p.timeout, false, func(ctx context.Context) (bool, error) {
		next, err := p.jobStatus(ctx, j.CallbackURL)
		if err != nil {
			return false, err
		}
		current = next
		p.log.V(1).Info("import job status", "job", j.JobID, "status", next.Status)
		return done(next), nil
	})
	if err != nil {
		return nil, fmt.Errorf("clouddns: waiting for import job %s (last status %s): %w", j.JobID, current.Status, err)
	}
	return current, nil
}

func (p *Provider) jobStatus(ctx context.Context, callbackURL string) (*job, error) {
	sep := "?"
	if strings.Contains(callbackURL, "?") {
		sep = "&"
	}
	resp, err := p.doRequest(ctx, http.MethodGet, callbackURL+sep+"showDetails=true", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("clouddns: job status returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var j job
	if err := json.NewDecoder(resp.Body).Decode(&j); err != nil {
		return nil, fmt.Errorf("clouddns: decode job status: %w", err)
	}
	return &j, nil
}

func done(j *job) bool {
	return j.Status == statusCompleted || j.Status == statusError
}

func domainFromJob(j *job) (*dns.Domain, error) {
	if j.Status == statusError {
		if j.Error != nil {
			return nil, fmt.Errorf("clouddns: import job %s failed: %s", j.JobID, j.Error)
		}
		return nil, fmt.Errorf("clouddns: import job %s failed", j.JobID)
	}
	if len(j.Response.Domains) == 0 {
		return nil, fmt.Errorf("clouddns: import job %s completed without a domain", j.JobID)
	}
	row := j.Response.Domains[0]
	return &dns.Domain{
		ID:      strconv.FormatInt(row.ID, 10),
		Name:    dns.TrimDot(row.Name),
		Serial:  row.Serial,
		Records: row.Records.TotalEntries,
	}, nil
}
