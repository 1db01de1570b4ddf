package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"retreat_screening_backend/internal/config"
)

// CRMError carries the HTTP status of a failed CRM call so callers can treat
// authorization/scope failures (403) as non-fatal.
type CRMError struct {
	StatusCode int
	Body       string
}

func (e *CRMError) Error() string {
	return fmt.Sprintf("crm request failed: status %d: %s", e.StatusCode, e.Body)
}

// IsScopeError reports whether err is a CRM 403, i.e. the integration token
// lacks a scope. These are logged and swallowed.
func IsScopeError(err error) bool {
	crmErr, ok := err.(*CRMError)
	return ok && crmErr.StatusCode == http.StatusForbidden
}

// CRMClient is a thin client for the external deal-pipeline CRM.
type CRMClient struct {
	config config.CRMConfig
	client *http.Client
}

func NewCRMClient(cfg config.CRMConfig) *CRMClient {
	return &CRMClient{
		config: cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type crmContact struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type crmDeal struct {
	ID         string    `json:"id"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// FindContactByEmail resolves the CRM contact id for an email address.
// Returns "" (no error) when the contact does not exist.
func (c *CRMClient) FindContactByEmail(email string) (string, error) {
	endpoint := fmt.Sprintf("%s/contacts/search?email=%s", c.config.BaseURL, url.QueryEscape(email))

	var result struct {
		Results []crmContact `json:"results"`
	}
	if err := c.doJSON("GET", endpoint, nil, &result); err != nil {
		return "", err
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].ID, nil
}

// LatestDealForContact returns the most recently modified deal associated
// with the contact, or "" when the contact has no deals.
func (c *CRMClient) LatestDealForContact(contactID string) (string, error) {
	endpoint := fmt.Sprintf("%s/contacts/%s/deals?sort=-modifiedAt&limit=1", c.config.BaseURL, url.PathEscape(contactID))

	var result struct {
		Results []crmDeal `json:"results"`
	}
	if err := c.doJSON("GET", endpoint, nil, &result); err != nil {
		return "", err
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].ID, nil
}

// UpdateDealProperties patches arbitrary properties onto a deal.
func (c *CRMClient) UpdateDealProperties(dealID string, properties map[string]string) error {
	endpoint := fmt.Sprintf("%s/deals/%s", c.config.BaseURL, url.PathEscape(dealID))
	body := map[string]interface{}{"properties": properties}
	return c.doJSON("PATCH", endpoint, body, nil)
}

// UpdateDealStage moves a deal to a pipeline stage.
func (c *CRMClient) UpdateDealStage(dealID, pipeline, stage string) error {
	endpoint := fmt.Sprintf("%s/deals/%s", c.config.BaseURL, url.PathEscape(dealID))
	body := map[string]interface{}{
		"properties": map[string]string{
			"pipeline":  pipeline,
			"dealstage": stage,
		},
	}
	return c.doJSON("PATCH", endpoint, body, nil)
}

func (c *CRMClient) doJSON(method, endpoint string, body interface{}, out interface{}) error {
	var reader *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(jsonData)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		return &CRMError{StatusCode: resp.StatusCode, Body: buf.String()}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
