// Where: cli/internal/infra/zipdeploy/target.go
// What: Zip deploy endpoint resolution.
// Why: Publish profiles carry a URL; older ones only name the site.
package zipdeploy

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultSCMURLTemplate renders the SCM base URL from a site name.
const DefaultSCMURLTemplate = "https://{{ .SiteName | lower }}.scm.azurewebsites.net/"

const zipDeployPath = "api/zipdeploy"

var errNoTarget = errors.New("neither a publish URL nor a site name was given")

// Target selects the site to deploy to. PublishURL wins over SiteName.
type Target struct {
	PublishURL     string
	SiteName       string
	SCMURLTemplate string
}

// URL returns the zip deploy endpoint without query parameters.
func (t Target) URL() (string, error) {
	if base := strings.TrimSpace(t.PublishURL); base != "" {
		return withZipDeployPath(base), nil
	}
	site := strings.TrimSpace(t.SiteName)
	if site == "" {
		return "", errNoTarget
	}
	text := t.SCMURLTemplate
	if strings.TrimSpace(text) == "" {
		text = DefaultSCMURLTemplate
	}
	tmpl, err := template.New("scm").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse scm url template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{"SiteName": site}); err != nil {
		return "", fmt.Errorf("render scm url template: %w", err)
	}
	return withZipDeployPath(strings.TrimSpace(buf.String())), nil
}

func withZipDeployPath(base string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + zipDeployPath
}
