package usecase

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/jenkify/jenkify/internal/jenkins"
)

type queueEntry struct {
	Name   string `yaml:"name"`
	URLEnd string `yaml:"urlEnd"`
}

// Queue converts a list of Jenkins job summaries into the YAML document the
// frontend renders, grouped by host with host-relative URLs.
type Queue struct{}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) ConvertToYAML(jobs []jenkins.JobSummary) (string, error) {
	grouped := make(map[string][]queueEntry)
	for _, job := range jobs {
		key := fmt.Sprintf("'%s'", job.Host)
		grouped[key] = append(grouped[key], queueEntry{
			Name:   job.Name,
			URLEnd: strings.Replace(job.URL, job.Host, "", 1),
		})
	}

	out, err := yaml.Marshal(grouped)
	if err != nil {
		return "", fmt.Errorf("marshal queue: %w", err)
	}
	// The frontend expects bare strings.
	return strings.ReplaceAll(string(out), `"`, ""), nil
}
