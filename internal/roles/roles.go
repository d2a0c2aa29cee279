package roles

import (
	"embed"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Roles are open-ended string codes, not a closed enum: deployments add roles
// without a schema change, and persisted data may reference roles this build
// has never seen. The built-in set ships as embedded YAML and can be replaced
// via ROLES_CONFIG_YAML.

const rolesConfigEnv = "ROLES_CONFIG_YAML"

//go:embed roles.yaml
var rolesFS embed.FS

// fallback set used when YAML is missing or invalid
var fallbackCodes = []string{"MED", "NUR", "PHARM"}

type Role struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

type yamlRoleSet struct {
	Roles []Role `yaml:"roles"`
}

var (
	loadOnce sync.Once
	loaded   []Role
)

// Known returns the configured role set, built-in order preserved.
func Known() []Role {
	loadOnce.Do(func() {
		loaded = load()
	})
	out := make([]Role, len(loaded))
	copy(out, loaded)
	return out
}

// KnownCodes returns just the codes of the configured role set.
func KnownCodes() []string {
	known := Known()
	codes := make([]string, 0, len(known))
	for _, r := range known {
		codes = append(codes, r.Code)
	}
	return codes
}

// Union merges the known role codes with codes observed in persisted data.
// Known codes keep their configured order; unknown observed codes follow,
// sorted, so no role's data is ever silently discarded.
func Union(known, observed []string) []string {
	seen := make(map[string]struct{}, len(known))
	out := make([]string, 0, len(known)+len(observed))
	for _, code := range known {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	var extras []string
	for _, code := range observed {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		extras = append(extras, code)
	}
	sort.Strings(extras)
	return append(out, extras...)
}

func load() []Role {
	raw, ok := readConfig()
	if ok {
		var set yamlRoleSet
		if err := yaml.Unmarshal(raw, &set); err == nil && len(set.Roles) > 0 {
			valid := set.Roles[:0]
			for _, r := range set.Roles {
				r.Code = strings.TrimSpace(r.Code)
				if r.Code == "" {
					continue
				}
				valid = append(valid, r)
			}
			if len(valid) > 0 {
				return valid
			}
		}
	}
	out := make([]Role, 0, len(fallbackCodes))
	for _, code := range fallbackCodes {
		out = append(out, Role{Code: code})
	}
	return out
}

func readConfig() ([]byte, bool) {
	if path := strings.TrimSpace(os.Getenv(rolesConfigEnv)); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			return raw, true
		}
	}
	raw, err := rolesFS.ReadFile("roles.yaml")
	if err != nil {
		return nil, false
	}
	return raw, true
}
