package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/go-resty/resty/v2"
)

const DefaultAPIURL = "https://api.github.com"

// WorkflowDisabler désactive le workflow planifié qui lance showwatch
// (PUT /repos/{owner}/{repo}/actions/workflows/{workflow}/disable).
type WorkflowDisabler struct {
	client     *resty.Client
	apiURL     string
	repository string
	workflow   string
	token      string
}

func NewWorkflowDisabler(client *resty.Client, apiURL, repository, workflow, token string) *WorkflowDisabler {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &WorkflowDisabler{
		client:     client,
		apiURL:     strings.TrimRight(apiURL, "/"),
		repository: strings.Trim(repository, "/"),
		workflow:   workflow,
		token:      token,
	}
}

func (d *WorkflowDisabler) DisableWorkflow(ctx context.Context) error {
	if d.repository == "" || !strings.Contains(d.repository, "/") {
		return &ports.CodedError{Code: "invalid_config", Message: fmt.Sprintf("invalid repository %q (want owner/name)", d.repository)}
	}
	endpoint := fmt.Sprintf("%s/repos/%s/actions/workflows/%s/disable", d.apiURL, d.repository, url.PathEscape(d.workflow))

	res, err := d.client.R().
		SetContext(ctx).
		SetAuthToken(d.token).
		SetHeader("accept", "application/vnd.github+json").
		SetHeader("x-github-api-version", "2022-11-28").
		Put(endpoint)
	if err != nil {
		return &ports.CodedError{Code: "network_error", Message: "disable workflow", Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return &ports.CodedError{Code: "http_status", Message: fmt.Sprintf("disable workflow %s: %s", d.workflow, res.Status())}
	}
	return nil
}
