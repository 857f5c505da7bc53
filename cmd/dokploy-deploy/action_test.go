package main

import (
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/artpar/dokploy-deploy/internal/core/health"
	"github.com/artpar/dokploy-deploy/internal/core/inputs"
	"github.com/artpar/dokploy-deploy/internal/shell/deployer"
	"github.com/artpar/dokploy-deploy/internal/shell/workers"
)

// actionMetadata mirrors the parts of action.yml the binary depends on.
type actionMetadata struct {
	Inputs map[string]struct {
		Description string `yaml:"description"`
		Required    bool   `yaml:"required"`
		Default     string `yaml:"default"`
	} `yaml:"inputs"`
	Outputs map[string]struct {
		Description string `yaml:"description"`
	} `yaml:"outputs"`
}

func loadActionMetadata(t *testing.T) actionMetadata {
	t.Helper()
	data, err := os.ReadFile("../../action.yml")
	require.NoError(t, err)

	var meta actionMetadata
	require.NoError(t, yaml.Unmarshal(data, &meta))
	return meta
}

func TestActionMetadata_InputsMatchParser(t *testing.T) {
	meta := loadActionMetadata(t)

	declared := make([]string, 0, len(meta.Inputs))
	required := []string{}
	for name, in := range meta.Inputs {
		declared = append(declared, name)
		if in.Required {
			required = append(required, name)
		}
		assert.NotEmpty(t, in.Description, "input %s has no description", name)
	}

	parsed := append([]string(nil), inputs.Names...)
	sort.Strings(declared)
	sort.Strings(parsed)
	sort.Strings(required)

	assert.Equal(t, parsed, declared)
	assert.Equal(t, []string{inputs.APIKey, inputs.DockerImage, inputs.DokployURL}, required)
}

func TestActionMetadata_OutputsMatchReport(t *testing.T) {
	meta := loadActionMetadata(t)

	declared := make([]string, 0, len(meta.Outputs))
	for name := range meta.Outputs {
		declared = append(declared, name)
	}
	produced := []string{}
	for name := range (&deployer.Report{}).Outputs() {
		produced = append(produced, name)
	}
	sort.Strings(declared)
	sort.Strings(produced)

	assert.Equal(t, produced, declared)
}

// Defaults declared in action.yml must agree with the parser's own defaults,
// so a run behaves the same with or without the runner filling them in.
func TestActionMetadata_DefaultsMatchParser(t *testing.T) {
	meta := loadActionMetadata(t)

	required := map[string]string{
		inputs.DokployURL:  "https://dokploy.example.com",
		inputs.APIKey:      "key",
		inputs.DockerImage: "ghcr.io/org/web:v1",
	}
	withDefaults := map[string]string{}
	for name, in := range meta.Inputs {
		withDefaults[name] = in.Default
	}
	for k, v := range required {
		withDefaults[k] = v
	}

	implicit, err := inputs.Parse(func(name string) string { return required[name] })
	require.NoError(t, err)
	explicit, err := inputs.Parse(func(name string) string { return withDefaults[name] })
	require.NoError(t, err)

	assert.Equal(t, implicit.EnvironmentName, explicit.EnvironmentName)
	assert.Equal(t, implicit.AutoCreateResources, explicit.AutoCreateResources)
	assert.Equal(t, implicit.RegistryURL, explicit.RegistryURL)
	assert.Equal(t, implicit.WaitForDeployment, explicit.WaitForDeployment)
	assert.Equal(t, implicit.ForceDomainRecreation, explicit.ForceDomainRecreation)
	assert.Equal(t, implicit.DebugMode, explicit.DebugMode)
	assert.Equal(t, health.SettingsFromInputs(implicit), health.SettingsFromInputs(explicit))

	require.NotNil(t, explicit.DeploymentTimeout)
	assert.Equal(t, workers.DefaultDeploymentTimeout.Seconds(), float64(*explicit.DeploymentTimeout))

	require.NotNil(t, explicit.DomainHTTPS)
	assert.True(t, *explicit.DomainHTTPS)
	assert.True(t, strings.HasPrefix(meta.Inputs[inputs.HealthCheckURL].Default, "/"))
}
