package arch

type Environment string

const (
	EnvironmentLocal Environment = "http://localhost:9002"
)
