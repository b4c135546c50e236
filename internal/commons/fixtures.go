package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"travelbook/internal/domain"
)

// AccountFixture seeds an account. Password is plain text and hashed when
// the fixture is loaded into a store.
type AccountFixture struct {
	Name     string      `yaml:"name"`
	Password string      `yaml:"password"`
	Role     domain.Role `yaml:"role"`
}

type Fixtures struct {
	Accounts []AccountFixture `yaml:"accounts"`
	Plans    []domain.Plan    `yaml:"plans"`
	Orders   []domain.Order   `yaml:"orders"`
	Comments []domain.Comment `yaml:"comments"`
}

func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures file: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixtures file: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixtures) validate() error {
	seen := make(map[string]struct{})
	check := func(kind domain.Kind, id string, err error) error {
		if _, ok := domain.ParseSequence(kind, id); !ok {
			return fmt.Errorf("fixture %s has malformed id %q", kind, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("fixture id %s is duplicated", id)
		}
		seen[id] = struct{}{}
		if err != nil {
			return fmt.Errorf("fixture %s: %w", id, err)
		}
		return nil
	}

	for _, p := range fx.Plans {
		if err := check(domain.KindPlan, p.ID, p.Validate()); err != nil {
			return err
		}
	}
	for _, o := range fx.Orders {
		if err := check(domain.KindOrder, o.ID, o.Validate()); err != nil {
			return err
		}
	}
	for _, c := range fx.Comments {
		if err := check(domain.KindComment, c.ID, c.Validate()); err != nil {
			return err
		}
	}
	for _, a := range fx.Accounts {
		if a.Name == "" || a.Password == "" || !a.Role.Valid() {
			return fmt.Errorf("fixture account %q is incomplete", a.Name)
		}
	}
	return nil
}
