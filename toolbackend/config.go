package toolbackend

import (
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/database"
	kafkax "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/kafka"
)

// Config is read with the TOOLS_ prefix.
type Config struct {
	Port     int             `envconfig:"PORT" default:"8000"`
	Database database.Config `envconfig:"DB"`
	Kafka    kafkax.Config   `envconfig:"KAFKA"`
	// SeedOnStart loads the demo data into an empty database.
	SeedOnStart bool `envconfig:"SEED" default:"true"`
}
