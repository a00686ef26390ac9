package usecase_test

import (
	"strings"
	"testing"

	"github.com/jenkify/jenkify/internal/jenkins"
	"github.com/jenkify/jenkify/internal/usecase"
)

func TestConvertToYAML_GroupsByHostWithRelativeURLs(t *testing.T) {
	jobs := []jenkins.JobSummary{
		{Host: "http://jenkins-a:8080", Name: "build-api", URL: "http://jenkins-a:8080/job/build-api/"},
		{Host: "http://jenkins-a:8080", Name: "deploy-api", URL: "http://jenkins-a:8080/job/deploy-api/"},
	}

	out, err := usecase.NewQueue().ConvertToYAML(jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "'http://jenkins-a:8080':") {
		t.Errorf("output missing quoted host key:\n%s", out)
	}
	if !strings.Contains(out, "name: build-api") || !strings.Contains(out, "name: deploy-api") {
		t.Errorf("output missing job names:\n%s", out)
	}
	if !strings.Contains(out, "urlEnd: /job/build-api/") {
		t.Errorf("output URL is not host-relative:\n%s", out)
	}
	if strings.Contains(out, `"`) {
		t.Errorf("output must not contain double quotes:\n%s", out)
	}
}

func TestConvertToYAML_SeparatesHosts(t *testing.T) {
	jobs := []jenkins.JobSummary{
		{Host: "http://jenkins-a:8080", Name: "build-api", URL: "http://jenkins-a:8080/job/build-api/"},
		{Host: "http://jenkins-b:8080", Name: "nightly", URL: "http://jenkins-b:8080/job/nightly/"},
	}

	out, err := usecase.NewQueue().ConvertToYAML(jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "'http://jenkins-a:8080':") || !strings.Contains(out, "'http://jenkins-b:8080':") {
		t.Errorf("output missing one of the host groups:\n%s", out)
	}
}

func TestConvertToYAML_Empty(t *testing.T) {
	out, err := usecase.NewQueue().ConvertToYAML(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "{}" {
		t.Errorf("empty job list produced %q, want an empty document", out)
	}
}
