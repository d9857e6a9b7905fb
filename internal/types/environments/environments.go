package environments

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Staging     Environment = "staging"
	Test        Environment = "test"
)

// Parse maps an APP_ENV value to an Environment, defaulting to development.
func Parse(s string) Environment {
	switch Environment(s) {
	case Production, "prod":
		return Production
	case Staging:
		return Staging
	case Test:
		return Test
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool {
	return e == Production
}
