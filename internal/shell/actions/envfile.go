package actions

import (
	"fmt"
	"os"

	"github.com/subosito/gotenv"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
)

// LoadEnvFile reads a dotenv file into a variable map.
//
// A missing or unreadable file fails with domain.ErrUnreadableInput and a
// file that is not valid dotenv with domain.ErrMalformedEnv, both wrapped
// in a *domain.ConfigurationError for field.
func LoadEnvFile(path, field string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewConfigurationError(field, fmt.Sprintf("cannot read %s: %v", path, err), domain.ErrUnreadableInput)
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, domain.NewConfigurationError(field, fmt.Sprintf("cannot parse %s: %v", path, err), domain.ErrMalformedEnv)
	}
	return env, nil
}
