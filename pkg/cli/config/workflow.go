package config

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Workflow holds the CLI flag for the workflow configuration file
type Workflow struct {
	path string
}

// Flags returns CLI flags for workflow configuration
func (w *Workflow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workflow-config",
			Usage:       "Path to workflow configuration TOML file",
			Sources:     cli.EnvVars("DEMANDFLOW_WORKFLOW_CONFIG"),
			Destination: &w.path,
		},
	}
}

// Configure loads and validates the workflow configuration. When no path is
// given, built-in defaults apply.
func (w *Workflow) Configure() (*WorkflowConfig, error) {
	if w.path == "" {
		return &WorkflowConfig{CommitteeThreshold: model.DefaultCommitteeThreshold}, nil
	}
	return LoadWorkflowConfig(w.path)
}

// WorkflowConfig represents the approval workflow configuration
type WorkflowConfig struct {
	CommitteeThreshold int            `toml:"committee_threshold"`
	Companies          []Company      `toml:"company"`
	Members            []RosterMember `toml:"member"`
}

// Company represents a company configuration
type Company struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Company is valid
func (c *Company) Validate() error {
	if err := types.CompanyID(c.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid company ID")
	}
	if c.Name == "" {
		return goerr.New("company name is required", goerr.V("id", c.ID))
	}
	return nil
}

// RosterMember represents an approval roster member configuration
type RosterMember struct {
	UserID    string `toml:"user_id"`
	Role      string `toml:"role"`
	CompanyID string `toml:"company_id"`
}

// Validate checks if the RosterMember is valid
func (m *RosterMember) Validate() error {
	if m.UserID == "" {
		return goerr.New("member user_id is required")
	}
	role, err := types.ParseMemberRole(m.Role)
	if err != nil {
		return goerr.Wrap(err, "invalid member role", goerr.V("user_id", m.UserID))
	}
	if role.IsCompanyScoped() && m.CompanyID == "" {
		return goerr.New("company_id is required for company-scoped roles",
			goerr.V("user_id", m.UserID), goerr.V("role", m.Role))
	}
	return nil
}

// Validate checks if the WorkflowConfig is valid
func (w *WorkflowConfig) Validate() error {
	if w.CommitteeThreshold < 1 || w.CommitteeThreshold > 100 {
		return goerr.New("committee_threshold must be between 1 and 100",
			goerr.V("threshold", w.CommitteeThreshold))
	}

	companyIDs := make(map[string]bool)
	for _, c := range w.Companies {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid company")
		}
		if companyIDs[c.ID] {
			return goerr.New("duplicate company ID", goerr.V("id", c.ID))
		}
		companyIDs[c.ID] = true
	}

	seen := make(map[string]bool)
	for _, m := range w.Members {
		if err := m.Validate(); err != nil {
			return goerr.Wrap(err, "invalid member")
		}
		key := m.UserID + "/" + m.Role + "/" + m.CompanyID
		if seen[key] {
			return goerr.New("duplicate roster member",
				goerr.V("user_id", m.UserID), goerr.V("role", m.Role))
		}
		seen[key] = true
		if m.CompanyID != "" && !companyIDs[m.CompanyID] {
			return goerr.New("member references unknown company",
				goerr.V("user_id", m.UserID), goerr.V("company_id", m.CompanyID))
		}
	}

	return nil
}

// SeedMembers writes the configured roster members into the repository.
// Intended for the memory backend where no roster exists yet.
func (w *WorkflowConfig) SeedMembers(ctx context.Context, repo interfaces.Repository) error {
	for _, m := range w.Members {
		role, err := types.ParseMemberRole(m.Role)
		if err != nil {
			return goerr.Wrap(err, "invalid member role", goerr.V("user_id", m.UserID))
		}
		member := &model.Member{
			UserID:    types.UserID(m.UserID),
			Role:      role,
			CompanyID: types.CompanyID(m.CompanyID),
			Active:    true,
		}
		if err := repo.Member().Put(ctx, member); err != nil {
			return goerr.Wrap(err, "failed to seed roster member", goerr.V("user_id", m.UserID))
		}
	}
	return nil
}

// LoadWorkflowConfig loads the workflow configuration from a TOML file
func LoadWorkflowConfig(path string) (*WorkflowConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	config := WorkflowConfig{CommitteeThreshold: model.DefaultCommitteeThreshold}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}
